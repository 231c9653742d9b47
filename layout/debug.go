package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将行表输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	type word struct {
		Text   string `json:"text"`
		Pixels int    `json:"pixels"`
	}
	type dump struct {
		Width      float64  `json:"width"`
		LineHeight float64  `json:"lineHeight"`
		Lines      [][]word `json:"lines"`
	}
	d := dump{Width: res.Width, LineHeight: res.LineHeight, Lines: make([][]word, 0, len(res.Lines))}
	for _, line := range res.Lines {
		ws := make([]word, 0, len(line))
		for _, w := range line {
			ws = append(ws, word{Text: w.Text, Pixels: wordPixels(w)})
		}
		d.Lines = append(d.Lines, ws)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

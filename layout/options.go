package layout

// UnknownPolicy 决定没有任何字体覆盖的字符如何处理。
type UnknownPolicy int

const (
	// UnknownDrop 静默丢弃（默认，与打印机上的历史行为一致）。
	UnknownDrop UnknownPolicy = iota
	// UnknownReplace 替换为 U+FFFD；若字体组也不覆盖 U+FFFD 则丢弃。
	UnknownReplace
	// UnknownFail 在首个不可解析字符处返回错误。
	UnknownFail
)

// Options 配置排版管线。
type Options struct {
	Width   float64 // 画布像素宽度，必须为正
	Unknown UnknownPolicy
}

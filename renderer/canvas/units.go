package canvasrenderer

// 画布单位约定：1 个 canvas 单位 = 1 像素，栅格化时用 DPMM(1.0) 落地。
// canvas 的字号入参是 pt，这里做 px↔pt 换算。
const (
	ptPerInch = 72.0
	mmPerInch = 25.4
	pxToPt    = ptPerInch / mmPerInch
)

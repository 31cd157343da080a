package renderer

import (
	"image"

	"github.com/ByLCY/typomosaic/mosaic"
)

// Surface 是绘制计划所需的最小能力集：清屏、填矩形、画字形、
// 以给定透明度叠加图像。具体后端（矢量画布、位图等）各自实现。
type Surface interface {
	// Clear 以不透明底色覆盖整个画布。
	Clear(c mosaic.Color)
	// FillRect 以给定颜色与透明度填充矩形区域。
	FillRect(x, y, w, h float64, c mosaic.Color, alpha float64)
	// DrawGlyph 在 (cell.X, cell.Y) 基线处绘制单个字形。
	DrawGlyph(cell mosaic.Cell)
	// DrawImage 将图像拉伸铺满画布后按 alpha 叠加。
	DrawImage(img image.Image, alpha float64)
}

// Paint 把渲染计划按固定次序绘制到画布上：清底色、叠底图、逐格画字形。
// 计划或画布缺失时静默跳过并返回 false；完整走完三个阶段返回 true。
func Paint(s Surface, plan *mosaic.Plan) bool {
	if s == nil || plan == nil {
		return false
	}
	s.Clear(plan.Background)
	if plan.Underlay > 0 && plan.Image != nil {
		s.DrawImage(plan.Image, plan.Underlay)
	}
	for _, cell := range plan.Cells {
		s.DrawGlyph(cell)
	}
	return true
}

package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/typomosaic/fonts"
	"github.com/ByLCY/typomosaic/mosaic"
	"github.com/ByLCY/typomosaic/renderer"
)

// 画布单位与 pt 的换算。光栅化固定按 DPMM(1) 进行，1 画布单位即 1 像素。
const (
	ptToUnit = 0.352777
	unitToPt = 1.0 / ptToUnit
)

// Surface 基于 github.com/tdewolff/canvas 实现 renderer.Surface。
// 同一画布既可光栅化为位图（PNG），也可矢量输出为 PDF。
type Surface struct {
	c      *canvas.Canvas
	ctx    *canvas.Context
	fonts  *fonts.Collection
	width  int
	height int
}

var _ renderer.Surface = (*Surface)(nil)

// NewSurface 创建 width×height 像素的画布；尺寸非法时返回 nil。
// collection 为 nil 时字形绘制被静默跳过，其余能力不受影响。
func NewSurface(width, height int, collection *fonts.Collection) *Surface {
	if width <= 0 || height <= 0 {
		return nil
	}
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与渲染计划保持左上角为原点
	return &Surface{c: c, ctx: ctx, fonts: collection, width: width, height: height}
}

// Clear 以不透明底色覆盖整个画布。
func (s *Surface) Clear(c mosaic.Color) {
	s.FillRect(0, 0, float64(s.width), float64(s.height), c, 1.0)
}

// FillRect 以给定颜色与透明度填充矩形，非法尺寸或零透明度时跳过。
func (s *Surface) FillRect(x, y, w, h float64, c mosaic.Color, alpha float64) {
	if w <= 0 || h <= 0 || alpha <= 0 {
		return
	}
	s.ctx.SetFillColor(rgba(c, alpha))
	s.ctx.SetStrokeColor(color.RGBA{})
	s.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// DrawGlyph 在 (cell.X, cell.Y) 基线处绘制单个字形。
// 字号按像素换算为 pt 后取字形面，字重命中最接近的已装载档位。
func (s *Surface) DrawGlyph(cell mosaic.Cell) {
	if cell.Glyph == "" {
		return
	}
	face := s.fonts.Face(toPt(cell.Size), rgba(cell.Color, cell.Alpha), cell.Weight)
	if face == nil {
		return
	}
	s.ctx.DrawText(cell.X, cell.Y, canvas.NewTextLine(face, cell.Glyph, canvas.Left))
}

// DrawImage 将图像拉伸铺满画布后按 alpha 叠加。
func (s *Surface) DrawImage(img image.Image, alpha float64) {
	if img == nil || alpha <= 0 {
		return
	}
	s.ctx.DrawImage(0, 0, stretch(img, s.width, s.height, alpha), canvas.DPMM(1.0))
}

// Image 把画布光栅化为 width×height 的位图。
func (s *Surface) Image() *image.RGBA {
	return rasterizer.Draw(s.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

// WritePNG 光栅化画布并编码为 PNG。
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.Image()); err != nil {
		return fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return nil
}

// Info 是 PDF 输出的文档元数据。
type Info struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// WritePDF 将画布矢量输出为单页 PDF 并写入文档元数据。
func (s *Surface) WritePDF(w io.Writer, info Info) error {
	writer := pdf.New(w, float64(s.width), float64(s.height), nil)
	keywords := strings.Join(info.Keywords, ", ")
	writer.SetInfo(info.Title, info.Subject, keywords, info.Author, info.Creator)
	s.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// stretch 把图像缩放到恰好 w×h，并把 alpha 乘进透明度通道。
func stretch(img image.Image, w, h int, alpha float64) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	if alpha >= 1 {
		return dst
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = uint8(float64(dst.Pix[i])*alpha + 0.5)
	}
	return dst
}

func rgba(c mosaic.Color, alpha float64) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, alpha)
}

// toPt 将画布单位（像素）转换为点（pt）。
func toPt(units float64) float64 { return units * unitToPt }

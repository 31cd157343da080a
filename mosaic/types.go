package mosaic

import (
	"image"
	"image/draw"
	"math"
)

// 该文件定义渲染计划与输入数据的类型，供计划构建、绘制与调试 JSON 共用。

// Background 是画布的底色（不透明的纸白）。
var Background = Color{R: 0xFA, G: 0xFA, B: 0xFA}

// Monochrome 模式下字形使用的固定深灰。
var monochromeColor = Color{R: 26, G: 26, B: 26}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Settings 是一次渲染的全部可调参数。值类型，渲染期间不可变；
// 越界的值在进入核心前由 Clamp 归一到合法区间。
type Settings struct {
	FontSize   float64 `json:"fontSize"`   // 基准字号（像素，5–36）
	Spacing    float64 `json:"spacing"`    // 网格密度倍率（0.8–2.0）
	Contrast   float64 `json:"contrast"`   // 亮度对比增益（0.6–1.8）
	Monochrome bool    `json:"monochrome"` // 单色模式：固定字形颜色，保留透明度/字号/字重
	Underlay   float64 `json:"underlay"`   // 底图透明度（0.0–0.2），0 表示不绘制底图
}

const (
	minFontSize = 5.0
	maxFontSize = 36.0
	minSpacing  = 0.8
	maxSpacing  = 2.0
	minContrast = 0.6
	maxContrast = 1.8
	minUnderlay = 0.0
	maxUnderlay = 0.2
)

// DefaultSettings 返回一组温和的默认参数。
func DefaultSettings() Settings {
	return Settings{
		FontSize: 14,
		Spacing:  1.0,
		Contrast: 1.0,
		Underlay: 0,
	}
}

// Clamp 返回各字段均落在合法区间内的副本。
func (s Settings) Clamp() Settings {
	s.FontSize = clampF(s.FontSize, minFontSize, maxFontSize)
	s.Spacing = clampF(s.Spacing, minSpacing, maxSpacing)
	s.Contrast = clampF(s.Contrast, minContrast, maxContrast)
	s.Underlay = clampF(s.Underlay, minUnderlay, maxUnderlay)
	return s
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Source 包装解码后的源图像。构造时复制为 RGBA 缓冲，之后不再修改。
type Source struct {
	width  int
	height int
	pix    *image.RGBA
}

// NewSource 从任意已解码图像构造采样源；nil 或零尺寸图像返回 nil。
func NewSource(img image.Image) *Source {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil
	}
	pix := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(pix, pix.Bounds(), img, b.Min, draw.Src)
	return &Source{width: b.Dx(), height: b.Dy(), pix: pix}
}

// Width 返回源图像宽度（像素）。
func (s *Source) Width() int { return s.width }

// Height 返回源图像高度（像素）。
func (s *Source) Height() int { return s.height }

// Aspect 返回宽高比（宽/高）。
func (s *Source) Aspect() float64 {
	if s == nil || s.height <= 0 {
		return 0
	}
	return float64(s.width) / float64(s.height)
}

// Image 返回内部的 RGBA 缓冲，供底图绘制使用；调用方不得修改。
func (s *Source) Image() image.Image {
	if s == nil {
		return nil
	}
	return s.pix
}

// Cell 是一格已完成取样与配色的字形。仅在遍历期间产生，按序写入 Plan。
type Cell struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Glyph     string  `json:"glyph"`
	Size      float64 `json:"size"`
	Weight    int     `json:"weight"`
	Alpha     float64 `json:"alpha"`
	Intensity float64 `json:"intensity"`
	Color     Color   `json:"color"`
}

// Plan 是一次渲染的完整绘制指令序列：先清底色，
// 再按 Underlay 叠加底图，最后逐格绘制字形。
// 对同一组输入，Plan 完全确定，不含任何隐藏状态。
type Plan struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Scale      float64 `json:"scale"`
	Detail     float64 `json:"detail"`
	Background Color   `json:"background"`
	Underlay   float64 `json:"underlay,omitempty"`
	Cells      []Cell  `json:"cells"`

	// 底图所用的源图像，Underlay 为 0 时为 nil；不参与序列化。
	Image image.Image `json:"-"`
}

// SurfaceSize 由基准宽度、源图像宽高比与缩放系数推出画布像素尺寸：
// 宽度 = floor(baseWidth·scale)，高度 = floor(floor(baseWidth/aspect)·scale)。
// 整数倍缩放下（导出 4x）两个维度都恰好是预览的整数倍。
func SurfaceSize(baseWidth int, src *Source, scale float64) (int, int) {
	if src == nil || baseWidth <= 0 || scale <= 0 {
		return 0, 0
	}
	aspect := src.Aspect()
	if aspect <= 0 {
		return 0, 0
	}
	baseHeight := math.Floor(float64(baseWidth) / aspect)
	w := int(math.Floor(float64(baseWidth) * scale))
	h := int(math.Floor(baseHeight * scale))
	return w, h
}

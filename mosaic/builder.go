package mosaic

// 构建阶段：把源图像、字形序列与样式设置求值为确定性的渲染计划。
// 本文件不做任何绘制，只产出纯数据，由 renderer 包消费。

const (
	// DefaultBaseWidth 是未显式指定时的基准宽度（预览像素）。
	DefaultBaseWidth = 640

	// ExportScale 是导出相对预览的固定放大倍率。
	ExportScale = 4.0

	// ExportDetail 是导出时的细节因子（最大密度）。
	ExportDetail = 1.0

	// PreviewDetail 是交互预览的默认细节因子，比导出稀疏以降低开销。
	PreviewDetail = 0.7

	// stepRatioY 是行距相对列距的固定比例。
	stepRatioY = 1.4

	minDetail = 0.5
	maxDetail = 1.0
)

// BuildOptions 控制一次构建的画布尺寸与网格密度。
type BuildOptions struct {
	// BaseWidth 为基准宽度（缩放前），非正值时取 DefaultBaseWidth。
	BaseWidth int
	// Scale 为画布放大倍率，必须为正。
	Scale float64
	// Detail 为网格密度因子，取值范围 [0.5, 1.0]，越低格点越稀。
	Detail float64
}

// PreviewOptions 返回交互预览所用的构建选项。
func PreviewOptions(baseWidth int) BuildOptions {
	return BuildOptions{BaseWidth: baseWidth, Scale: 1.0, Detail: PreviewDetail}
}

// ExportOptions 返回高分辨率导出所用的构建选项。
func ExportOptions(baseWidth int) BuildOptions {
	return BuildOptions{BaseWidth: baseWidth, Scale: ExportScale, Detail: ExportDetail}
}

// Build 把源图像按行优先网格遍历求值为渲染计划。
// 网格步长由字号、间距与细节因子共同决定：
//
//	stepX = fontSize·scale·spacing / detail
//	stepY = stepX · 1.4
//
// 细节因子作分母：调低 detail 会拉大步长、减少格点数，预览因此比导出粗。
// 每个格点从字形序列按单调递增的全局下标取字形，并对采样色求取样式元组。
// 源图像缺失或尺寸非法时返回 nil，调用方据此静默跳过。
func Build(src *Source, stream GlyphStream, settings Settings, opts BuildOptions) *Plan {
	if src == nil || opts.Scale <= 0 {
		return nil
	}
	baseWidth := opts.BaseWidth
	if baseWidth <= 0 {
		baseWidth = DefaultBaseWidth
	}
	detail := clampF(opts.Detail, minDetail, maxDetail)
	settings = settings.Clamp()

	width, height := SurfaceSize(baseWidth, src, opts.Scale)
	if width <= 0 || height <= 0 {
		return nil
	}

	scaledFont := settings.FontSize * opts.Scale
	stepX := scaledFont * settings.Spacing / detail
	stepY := stepX * stepRatioY

	sampler := NewSampler(src, width, height)
	var cells []Cell
	idx := 0
	for y := 0.0; y < float64(height); y += stepY {
		for x := 0.0; x < float64(width); x += stepX {
			r, g, b := sampler.At(x, y)
			st := styleFor(r, g, b, settings, scaledFont)
			cells = append(cells, Cell{
				X:         x,
				Y:         y,
				Glyph:     string(stream.At(idx)),
				Size:      st.size,
				Weight:    st.weight,
				Alpha:     st.alpha,
				Intensity: st.intensity,
				Color:     st.color,
			})
			idx++
		}
	}

	plan := &Plan{
		Width:      width,
		Height:     height,
		Scale:      opts.Scale,
		Detail:     detail,
		Background: Background,
		Underlay:   settings.Underlay,
		Cells:      cells,
	}
	if settings.Underlay > 0 {
		plan.Image = src.Image()
	}
	return plan
}

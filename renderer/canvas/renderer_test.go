package canvasrenderer

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/ByLCY/typomosaic/fonts"
	"github.com/ByLCY/typomosaic/mosaic"
	"github.com/ByLCY/typomosaic/renderer"
)

func defaultFonts(t *testing.T) *fonts.Collection {
	t.Helper()
	c, err := fonts.Default()
	if err != nil {
		t.Fatalf("内置字体装载失败: %v", err)
	}
	return c
}

// pixelAt 是测试辅助：读取光栅化结果在 (x,y) 处的 8 位 RGB。
func pixelAt(img *image.RGBA, x, y int) (int, int, int) {
	o := img.PixOffset(x, y)
	return int(img.Pix[o]), int(img.Pix[o+1]), int(img.Pix[o+2])
}

func near(got, want, tol int) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// TestNewSurfaceGuards 验证非法尺寸返回 nil。
func TestNewSurfaceGuards(t *testing.T) {
	if s := NewSurface(0, 10, nil); s != nil {
		t.Fatalf("零宽度应返回 nil 画布")
	}
	if s := NewSurface(10, -1, nil); s != nil {
		t.Fatalf("负高度应返回 nil 画布")
	}
	if s := NewSurface(10, 10, nil); s == nil {
		t.Fatalf("合法尺寸不应返回 nil")
	}
}

// TestClearFillsBackground 验证清屏后整幅位图都是底色，且位图尺寸与画布一致。
func TestClearFillsBackground(t *testing.T) {
	s := NewSurface(20, 10, nil)
	s.Clear(mosaic.Background)
	img := s.Image()

	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("位图尺寸错误: %v", b)
	}
	for _, pt := range [][2]int{{0, 0}, {19, 0}, {0, 9}, {19, 9}, {10, 5}} {
		r, g, b := pixelAt(img, pt[0], pt[1])
		if !near(r, 250, 2) || !near(g, 250, 2) || !near(b, 250, 2) {
			t.Fatalf("底色错误 at (%d,%d): (%d,%d,%d)", pt[0], pt[1], r, g, b)
		}
	}
}

// TestFillRectComposites 验证不透明与半透明矩形的像素合成。
func TestFillRectComposites(t *testing.T) {
	s := NewSurface(40, 40, nil)
	s.Clear(mosaic.Background)
	s.FillRect(0, 0, 20, 40, mosaic.Color{R: 255}, 1.0)
	s.FillRect(20, 0, 20, 40, mosaic.Color{R: 255}, 0.5)
	img := s.Image()

	// 不透明半区：纯红。
	r, g, b := pixelAt(img, 10, 20)
	if !near(r, 255, 2) || !near(g, 0, 2) || !near(b, 0, 2) {
		t.Fatalf("不透明红色错误: (%d,%d,%d)", r, g, b)
	}
	// 半透明半区：红与纸白各半 ≈ (252,125,125)。
	r, g, b = pixelAt(img, 30, 20)
	if !near(r, 252, 6) || !near(g, 125, 6) || !near(b, 125, 6) {
		t.Fatalf("半透明合成错误: (%d,%d,%d)", r, g, b)
	}

	// 非法参数不绘制。
	s2 := NewSurface(10, 10, nil)
	s2.Clear(mosaic.Background)
	s2.FillRect(0, 0, -5, 10, mosaic.Color{}, 1.0)
	s2.FillRect(0, 0, 10, 10, mosaic.Color{}, 0)
	r, g, b = pixelAt(s2.Image(), 5, 5)
	if !near(r, 250, 2) || !near(g, 250, 2) || !near(b, 250, 2) {
		t.Fatalf("非法矩形不应留下痕迹: (%d,%d,%d)", r, g, b)
	}
}

// TestDrawGlyphRendersInk 验证字形在基线位置附近留下深色墨迹。
func TestDrawGlyphRendersInk(t *testing.T) {
	s := NewSurface(60, 40, defaultFonts(t))
	s.Clear(mosaic.Background)
	s.DrawGlyph(mosaic.Cell{
		X: 10, Y: 32, Glyph: "M",
		Size: 24, Weight: 700, Alpha: 1.0,
		Color: mosaic.Color{R: 10, G: 10, B: 10},
	})
	img := s.Image()

	found := false
	for y := 0; y < 40 && !found; y++ {
		for x := 0; x < 60 && !found; x++ {
			r, g, b := pixelAt(img, x, y)
			if r < 128 && g < 128 && b < 128 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("画布上没有字形墨迹")
	}
}

// TestDrawGlyphWithoutFonts 验证无字体集合时字形绘制被静默跳过。
func TestDrawGlyphWithoutFonts(t *testing.T) {
	s := NewSurface(30, 30, nil)
	s.Clear(mosaic.Background)
	s.DrawGlyph(mosaic.Cell{X: 5, Y: 25, Glyph: "M", Size: 20, Weight: 700, Alpha: 1})
	img := s.Image()

	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			r, g, b := pixelAt(img, x, y)
			if !near(r, 250, 2) || !near(g, 250, 2) || !near(b, 250, 2) {
				t.Fatalf("无字体时画布应保持底色 at (%d,%d): (%d,%d,%d)", x, y, r, g, b)
			}
		}
	}
}

// TestDrawImageStretchesAndFades 验证底图被拉伸铺满画布并按 alpha 淡化叠加。
func TestDrawImageStretchesAndFades(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			o := src.PixOffset(x, y)
			src.Pix[o] = 255
			src.Pix[o+3] = 255
		}
	}

	s := NewSurface(16, 16, nil)
	s.Clear(mosaic.Background)
	s.DrawImage(src, 0.5)
	img := s.Image()

	// 画布中心与边角都应被覆盖：红与纸白各半。
	for _, pt := range [][2]int{{8, 8}, {2, 2}, {13, 13}} {
		r, g, b := pixelAt(img, pt[0], pt[1])
		if !near(r, 252, 6) || !near(g, 125, 6) || !near(b, 125, 6) {
			t.Fatalf("底图叠加错误 at (%d,%d): (%d,%d,%d)", pt[0], pt[1], r, g, b)
		}
	}

	// alpha 为 0 时不绘制。
	s2 := NewSurface(8, 8, nil)
	s2.Clear(mosaic.Background)
	s2.DrawImage(src, 0)
	if r, _, _ := pixelAt(s2.Image(), 4, 4); !near(r, 250, 2) {
		t.Fatalf("零透明度底图不应留下痕迹: r=%d", r)
	}
}

// TestWritePNGRoundTrip 验证 PNG 编码产物可解码且尺寸、底色正确。
func TestWritePNGRoundTrip(t *testing.T) {
	s := NewSurface(24, 12, nil)
	s.Clear(mosaic.Background)

	var buf bytes.Buffer
	if err := s.WritePNG(&buf); err != nil {
		t.Fatalf("PNG 编码失败: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("PNG 解码失败: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 24 || b.Dy() != 12 {
		t.Fatalf("PNG 尺寸错误: %v", b)
	}
	r, g, b, _ := decoded.At(12, 6).RGBA()
	if !near(int(r>>8), 250, 2) || !near(int(g>>8), 250, 2) || !near(int(b>>8), 250, 2) {
		t.Fatalf("PNG 底色错误: (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

// TestWritePDF 验证 PDF 输出非空且带有文件头。
func TestWritePDF(t *testing.T) {
	s := NewSurface(100, 80, defaultFonts(t))
	s.Clear(mosaic.Background)
	s.DrawGlyph(mosaic.Cell{X: 10, Y: 60, Glyph: "字", Size: 40, Weight: 400, Alpha: 1,
		Color: mosaic.Color{R: 26, G: 26, B: 26}})

	var buf bytes.Buffer
	err := s.WritePDF(&buf, Info{
		Title:    "typomosaic",
		Author:   "tester",
		Creator:  "typomosaic",
		Keywords: []string{"mosaic", "glyph"},
	})
	if err != nil {
		t.Fatalf("PDF 输出失败: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("PDF 文件头错误，前缀: %.8q", buf.String())
	}
	if buf.Len() < 100 {
		t.Fatalf("PDF 产物过小: %d 字节", buf.Len())
	}
}

// TestPaintPipeline 验证完整管线：构建计划并绘制到画布，
// 返回完成信号且画布上留有墨迹。
func TestPaintPipeline(t *testing.T) {
	srcImg := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src := mosaic.NewSource(srcImg)
	settings := mosaic.DefaultSettings()
	settings.Underlay = 0.1
	plan := mosaic.Build(src, mosaic.NewGlyphStream("马赛克 mosaic"), settings,
		mosaic.PreviewOptions(96))
	if plan == nil {
		t.Fatalf("构建失败")
	}

	s := NewSurface(plan.Width, plan.Height, defaultFonts(t))
	if !renderer.Paint(s, plan) {
		t.Fatalf("绘制未完成")
	}
	img := s.Image()
	found := false
	for y := 0; y < plan.Height && !found; y++ {
		for x := 0; x < plan.Width && !found; x++ {
			r, g, b := pixelAt(img, x, y)
			if r < 200 && g < 200 && b < 200 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("画布上没有任何墨迹")
	}
}

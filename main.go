package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/typomosaic/fonts"
	"github.com/ByLCY/typomosaic/job"
	"github.com/ByLCY/typomosaic/mosaic"
	"github.com/ByLCY/typomosaic/renderer"
	canvasrenderer "github.com/ByLCY/typomosaic/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.mosaic", "作业描述文件路径")
	output := flag.String("out", "output/mosaic.png", "预览 PNG 输出路径")
	export := flag.String("export", "", "4x 高分辨率 PNG 输出路径")
	pdfPath := flag.String("pdf", "", "矢量 PDF 输出路径")
	debug := flag.String("debug", "", "渲染计划调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到作业文本的 JSON 数据")
	fontFiles := flag.String("fonts", "", "字体文件列表（逗号分隔，字重按文件名推断）")
	fontDir := flag.String("fonts-dir", "", "字体目录（扫描 .ttf/.otf 文件）")
	baseWidth := flag.Int("base-width", 0, "覆盖作业中的基准宽度（像素）")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	opts := cliOptions{
		input:     *input,
		output:    *output,
		export:    *export,
		pdf:       *pdfPath,
		debug:     *debug,
		data:      inputData,
		fontFiles: *fontFiles,
		fontDir:   *fontDir,
		baseWidth: *baseWidth,
	}
	if err := run(opts); err != nil {
		log.Fatalf("生成马赛克失败: %v", err)
	}
	fmt.Printf("已生成预览 PNG：%s\n", *output)
	if *export != "" {
		fmt.Printf("已生成导出 PNG：%s\n", *export)
	}
	if *pdfPath != "" {
		fmt.Printf("已生成 PDF：%s\n", *pdfPath)
	}
}

type cliOptions struct {
	input     string
	output    string
	export    string
	pdf       string
	debug     string
	data      any
	fontFiles string
	fontDir   string
	baseWidth int
}

// run 串联作业求值、计划构建与各路输出。
func run(opts cliOptions) error {
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开作业文件 %s: %w", opts.input, err)
	}
	j, err := job.Parse(file, opts.data)
	file.Close()
	if err != nil {
		return err
	}
	if opts.baseWidth > 0 {
		j.BaseWidth = opts.baseWidth
	}

	imagePath := j.ImagePath
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(filepath.Dir(opts.input), imagePath)
	}
	img, err := decodeImage(imagePath)
	if err != nil {
		return err
	}

	collection, err := loadFonts(opts.fontFiles, opts.fontDir)
	if err != nil {
		return err
	}

	session := mosaic.NewSession()
	session.SetImage(mosaic.NewSource(img))
	session.SetText(j.Text)
	session.SetSettings(j.Settings)

	plan := session.PreviewPlan(j.BaseWidth, j.Detail)
	if plan == nil {
		return fmt.Errorf("源图像 %s 无法构建渲染计划", imagePath)
	}

	if opts.debug != "" {
		if err := writeDebug(plan, opts.debug); err != nil {
			return err
		}
	}

	if err := paintPNG(plan, opts.output, collection); err != nil {
		return err
	}

	if opts.export != "" {
		exportPlan := session.ExportPlan(j.BaseWidth)
		if exportPlan == nil {
			return fmt.Errorf("无法构建导出计划")
		}
		if err := paintPNG(exportPlan, opts.export, collection); err != nil {
			return err
		}
	}

	if opts.pdf != "" {
		info := canvasrenderer.Info{
			Title:    j.Meta.Title,
			Subject:  j.Meta.Subject,
			Author:   j.Meta.Author,
			Creator:  j.Meta.Creator,
			Keywords: j.Meta.Keywords,
		}
		if info.Title == "" {
			info.Title = j.Name
		}
		if err := paintPDF(plan, opts.pdf, collection, info); err != nil {
			return err
		}
	}

	return nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	return img, nil
}

// loadFonts 按优先级装载字体：显式文件列表、目录扫描、内置 Go 字体。
func loadFonts(fontFiles, fontDir string) (*fonts.Collection, error) {
	if fontFiles != "" {
		c := fonts.NewCollection("custom")
		for _, path := range strings.Split(fontFiles, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			weight := fonts.WeightFromName(filepath.Base(path))
			if err := c.LoadFile(path, weight); err != nil {
				return nil, err
			}
		}
		if len(c.Weights()) == 0 {
			return nil, fmt.Errorf("字体列表中没有可用的字体文件")
		}
		return c, nil
	}
	if fontDir != "" {
		return fonts.DiscoverDir(fontDir)
	}
	return fonts.Default()
}

func paintSurface(plan *mosaic.Plan, collection *fonts.Collection) (*canvasrenderer.Surface, error) {
	surface := canvasrenderer.NewSurface(plan.Width, plan.Height, collection)
	if surface == nil {
		return nil, fmt.Errorf("画布尺寸非法: %d×%d", plan.Width, plan.Height)
	}
	if !renderer.Paint(surface, plan) {
		return nil, fmt.Errorf("渲染计划绘制未完成")
	}
	return surface, nil
}

func paintPNG(plan *mosaic.Plan, outputPath string, collection *fonts.Collection) error {
	surface, err := paintSurface(plan, collection)
	if err != nil {
		return err
	}
	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	if err := surface.WritePNG(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func paintPDF(plan *mosaic.Plan, outputPath string, collection *fonts.Collection, info canvasrenderer.Info) error {
	surface, err := paintSurface(plan, collection)
	if err != nil {
		return err
	}
	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	if err := surface.WritePDF(file, info); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("创建输出文件 %s 失败: %w", path, err)
	}
	return file, nil
}

func writeDebug(plan *mosaic.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := mosaic.WritePlanJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

package job

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/typomosaic/binding"
	"github.com/ByLCY/typomosaic/dsl"
	"github.com/ByLCY/typomosaic/mosaic"
)

// Meta 是输出文件携带的文档元数据。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Job 是一份求值完成的马赛克作业：源图像路径、字形文本与全部参数。
// 字段均已插值并收敛到合法区间，可直接交给构建阶段。
type Job struct {
	Name      string
	Meta      Meta
	ImagePath string
	Text      string
	Settings  mosaic.Settings
	BaseWidth int
	Detail    float64
}

// Parse 从 r 读取作业描述并求值。data 用于 ${path|fallback} 插值，可为 nil。
func Parse(r io.Reader, data any) (*Job, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析作业描述失败: %w", err)
	}
	return FromDocument(doc, data)
}

// FromDocument 把语法树求值为作业。未出现的参数取默认值，
// 源图像路径缺失时报错。
func FromDocument(doc *dsl.Document, data any) (*Job, error) {
	if doc == nil {
		return nil, fmt.Errorf("作业描述为空")
	}
	job := &Job{
		Name:      doc.Name,
		Meta:      Meta{Creator: "typomosaic"},
		Settings:  mosaic.DefaultSettings(),
		BaseWidth: mosaic.DefaultBaseWidth,
		Detail:    mosaic.PreviewDetail,
	}
	for _, section := range doc.Sections {
		switch {
		case section.Meta != nil:
			collectMeta(job, section.Meta.Block)
		case section.Source != nil:
			collectSource(job, section.Source.Block)
		case section.Text != nil:
			job.Text += extractText(section.Text.Block)
		case section.Settings != nil:
			collectSettings(job, section.Settings.Block)
		case section.Output != nil:
			collectOutput(job, section.Output.Block)
		}
	}

	job.ImagePath = binding.Interpolate(job.ImagePath, data)
	job.Text = binding.Interpolate(job.Text, data)
	if job.ImagePath == "" {
		return nil, fmt.Errorf("作业 %s 缺少源图像（source.image）", doc.Name)
	}
	job.Settings = job.Settings.Clamp()
	return job, nil
}

func collectMeta(job *Job, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		switch key {
		case "title":
			job.Meta.Title = valueToString(stmt.Assignment.Value)
		case "author":
			job.Meta.Author = valueToString(stmt.Assignment.Value)
		case "subject":
			job.Meta.Subject = valueToString(stmt.Assignment.Value)
		case "creator":
			job.Meta.Creator = valueToString(stmt.Assignment.Value)
		case "keywords":
			job.Meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
		}
	}
}

func collectSource(job *Job, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch strings.ToLower(stmt.Assignment.Key) {
		case "image", "path":
			job.ImagePath = valueToString(stmt.Assignment.Value)
		}
	}
}

func collectSettings(job *Job, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		value := valueToString(stmt.Assignment.Value)
		switch key {
		case "font-size", "size":
			if v := parseNumber(value); v > 0 {
				job.Settings.FontSize = v
			}
		case "spacing":
			if v := parseNumber(value); v > 0 {
				job.Settings.Spacing = v
			}
		case "contrast":
			if v := parseNumber(value); v > 0 {
				job.Settings.Contrast = v
			}
		case "underlay":
			if v := parseRatio(value); v > 0 {
				job.Settings.Underlay = v
			}
		case "monochrome":
			job.Settings.Monochrome = parseBool(value)
		}
	}
}

func collectOutput(job *Job, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		value := valueToString(stmt.Assignment.Value)
		switch key {
		case "base-width", "width":
			if v := parseNumber(value); v > 0 {
				job.BaseWidth = int(v)
			}
		case "detail":
			if v := parseRatio(value); v > 0 {
				job.Detail = v
			}
		}
	}
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// parseNumber 解析带可选单位（px/%/x）的数值，无法解析时返回 0。
func parseNumber(value string) float64 {
	if value == "" {
		return 0
	}
	num := strings.TrimSuffix(value, "px")
	num = strings.TrimSuffix(num, "%")
	num = strings.TrimSuffix(num, "x")
	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return val
}

// parseRatio 解析比例值：百分号形式按 /100 归一（8% → 0.08）。
func parseRatio(value string) float64 {
	if strings.HasSuffix(value, "%") {
		return parseNumber(value) / 100
	}
	return parseNumber(value)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}

package fonts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// Collection 管理一个字体家族在若干字重档位上的字形面。
// 字重按 100 对齐到 300–900；取面时命中最接近的已装载档位。
type Collection struct {
	family  *canvas.FontFamily
	weights []int
}

// NewCollection 创建空的字体集合。
func NewCollection(name string) *Collection {
	if name == "" {
		name = "mosaic"
	}
	return &Collection{family: canvas.NewFontFamily(name)}
}

// LoadWeight 把一份 TTF/OTF 字节装载到给定字重档位。
func (c *Collection) LoadWeight(data []byte, weight int) error {
	w := normalizeWeight(weight)
	if err := c.family.LoadFont(data, 0, StyleForWeight(w)); err != nil {
		return fmt.Errorf("装载字重 %d 失败: %w", w, err)
	}
	for _, have := range c.weights {
		if have == w {
			return nil
		}
	}
	c.weights = append(c.weights, w)
	sort.Ints(c.weights)
	return nil
}

// LoadFile 从磁盘读取字体文件并装载到给定字重档位。
func (c *Collection) LoadFile(path string, weight int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return c.LoadWeight(data, weight)
}

// Face 返回给定字号（pt）、颜色与字重的字形面，字重取最接近的已装载档位。
// 集合为空时返回 nil，调用方据此跳过绘制。
func (c *Collection) Face(sizePt float64, col color.Color, weight int) *canvas.FontFace {
	if c == nil || len(c.weights) == 0 {
		return nil
	}
	w := c.nearest(normalizeWeight(weight))
	return c.family.Face(sizePt, col, StyleForWeight(w), canvas.FontNormal)
}

// Weights 返回已装载的字重档位（升序副本）。
func (c *Collection) Weights() []int {
	if c == nil {
		return nil
	}
	out := make([]int, len(c.weights))
	copy(out, c.weights)
	return out
}

func (c *Collection) nearest(want int) int {
	best := c.weights[0]
	for _, w := range c.weights[1:] {
		dw, db := abs(w-want), abs(best-want)
		if dw < db || (dw == db && w > best) {
			best = w
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// StyleForWeight 把 100 对齐的字重映射到画布字体样式。
func StyleForWeight(weight int) canvas.FontStyle {
	switch normalizeWeight(weight) {
	case 300:
		return canvas.FontLight
	case 500:
		return canvas.FontMedium
	case 600:
		return canvas.FontSemiBold
	case 700:
		return canvas.FontBold
	case 800:
		return canvas.FontExtraBold
	case 900:
		return canvas.FontBlack
	default:
		return canvas.FontRegular
	}
}

// normalizeWeight 把任意字重四舍五入到最近的 100 档位并收敛到 [300,900]。
func normalizeWeight(w int) int {
	n := ((w + 50) / 100) * 100
	if n < 300 {
		return 300
	}
	if n > 900 {
		return 900
	}
	return n
}

// WeightFromName 从字体文件名或样式名推断字重档位，无法识别时返回 400。
func WeightFromName(name string) int {
	s := strings.ToLower(name)
	switch {
	case strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		return 900
	case strings.Contains(s, "extrabold"), strings.Contains(s, "ultrabold"):
		return 800
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		return 600
	case strings.Contains(s, "bold"):
		return 700
	case strings.Contains(s, "medium"):
		return 500
	case strings.Contains(s, "light"), strings.Contains(s, "thin"):
		return 300
	default:
		return 400
	}
}

// DiscoverDir 扫描目录中的 .ttf/.otf 文件并按文件名推断字重装载。
// 同一档位首个文件生效，目录中没有可装载文件时返回错误。
func DiscoverDir(dir string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取字体目录 %s 失败: %w", dir, err)
	}
	c := NewCollection(filepath.Base(dir))
	seen := map[int]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		w := normalizeWeight(WeightFromName(entry.Name()))
		if seen[w] {
			continue
		}
		if err := c.LoadFile(filepath.Join(dir, entry.Name()), w); err != nil {
			return nil, err
		}
		seen[w] = true
	}
	if len(c.weights) == 0 {
		return nil, fmt.Errorf("目录 %s 中没有可用的字体文件", dir)
	}
	return c, nil
}

// Default 返回内置的 Go 字体集合，覆盖 400/500/700 三个档位。
func Default() (*Collection, error) {
	c := NewCollection("go")
	if err := c.LoadWeight(goregular.TTF, 400); err != nil {
		return nil, err
	}
	if err := c.LoadWeight(gomedium.TTF, 500); err != nil {
		return nil, err
	}
	if err := c.LoadWeight(gobold.TTF, 700); err != nil {
		return nil, err
	}
	return c, nil
}

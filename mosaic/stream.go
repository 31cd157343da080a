package mosaic

import "strings"

// placeholder 在文本规范化后为空时充当唯一字形。
const placeholder = '•'

// GlyphStream 是规范化后的循环字形序列：空白串折叠为单个空格，
// 首尾空白去除；结果为空时退化为单个占位符。序列永不为空。
// 按 rune 粒度切分：组合字符、多码点的 emoji 会被拆到相邻格位。
type GlyphStream struct {
	runes []rune
}

// NewGlyphStream 规范化输入文本并构造字形序列。
func NewGlyphStream(text string) GlyphStream {
	joined := strings.Join(strings.Fields(text), " ")
	if joined == "" {
		return GlyphStream{runes: []rune{placeholder}}
	}
	return GlyphStream{runes: []rune(joined)}
}

// Len 返回序列长度，恒 ≥ 1。
func (g GlyphStream) Len() int {
	if len(g.runes) == 0 {
		return 1
	}
	return len(g.runes)
}

// At 按 i mod Len 循环取字形，对任意整数 i 都有定义。
// 位置上若是换行符则以空格替代。
func (g GlyphStream) At(i int) rune {
	n := len(g.runes)
	if n == 0 {
		return placeholder
	}
	idx := i % n
	if idx < 0 {
		idx += n
	}
	r := g.runes[idx]
	if r == '\n' {
		return ' '
	}
	return r
}

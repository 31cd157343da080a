package mosaic

import "testing"

// TestGlyphStreamNormalizes 验证空白折叠与首尾修剪：任意空白串折叠为单个空格。
func TestGlyphStreamNormalizes(t *testing.T) {
	g := NewGlyphStream("  Hello   世界\t\nfoo  ")
	want := []rune("Hello 世界 foo")
	if g.Len() != len(want) {
		t.Fatalf("规范化后长度错误: got=%d want=%d", g.Len(), len(want))
	}
	for i, r := range want {
		if got := g.At(i); got != r {
			t.Fatalf("位置 %d 字形错误: got=%q want=%q", i, got, r)
		}
	}
}

// TestGlyphStreamEmptyFallsBack 验证空文本与纯空白文本退化为单个占位符。
func TestGlyphStreamEmptyFallsBack(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \r\n"} {
		g := NewGlyphStream(text)
		if g.Len() != 1 {
			t.Fatalf("空文本 %q 的长度应为 1，实际 %d", text, g.Len())
		}
		if g.At(0) != '•' || g.At(17) != '•' {
			t.Fatalf("空文本 %q 应恒为占位符，实际 %q", text, g.At(0))
		}
	}

	var zero GlyphStream
	if zero.Len() != 1 || zero.At(0) != '•' {
		t.Fatalf("零值序列应退化为占位符: len=%d at0=%q", zero.Len(), zero.At(0))
	}
}

// TestGlyphStreamCycles 验证下标按序列长度取模循环，负下标同样有定义。
func TestGlyphStreamCycles(t *testing.T) {
	g := NewGlyphStream("ab文")
	cases := []struct {
		i    int
		want rune
	}{
		{0, 'a'}, {1, 'b'}, {2, '文'},
		{3, 'a'}, {4, 'b'}, {5, '文'},
		{300, 'a'}, {301, 'b'},
		{-1, '文'}, {-3, 'a'},
	}
	for _, c := range cases {
		if got := g.At(c.i); got != c.want {
			t.Fatalf("At(%d) 错误: got=%q want=%q", c.i, got, c.want)
		}
	}
}

// TestGlyphStreamRuneGranularity 验证按码点切分：组合序列与 ZWJ emoji 拆为多个格位。
func TestGlyphStreamRuneGranularity(t *testing.T) {
	// e + 组合重音 = 2 个码点。
	g := NewGlyphStream("é")
	if g.Len() != 2 {
		t.Fatalf("组合序列应拆为 2 个码点，实际 %d", g.Len())
	}

	// 👨 ZWJ 👩 ZWJ 👧 = 5 个码点。
	g = NewGlyphStream("\U0001F468‍\U0001F469‍\U0001F467")
	if g.Len() != 5 {
		t.Fatalf("ZWJ 序列应拆为 5 个码点，实际 %d", g.Len())
	}
	if g.At(1) != '‍' {
		t.Fatalf("位置 1 应为 ZWJ，实际 %q", g.At(1))
	}
}

// TestGlyphStreamNewlineBecomesSpace 验证取样时换行符以空格替代。
func TestGlyphStreamNewlineBecomesSpace(t *testing.T) {
	g := GlyphStream{runes: []rune{'a', '\n', 'b'}}
	if got := g.At(1); got != ' ' {
		t.Fatalf("换行符应替换为空格，实际 %q", got)
	}
	if g.At(0) != 'a' || g.At(2) != 'b' {
		t.Fatalf("其余字形不应受影响")
	}
}

package mosaic

// State 表示会话的预览状态。
type State int

const (
	// Idle 表示尚无源图像，任何构建请求都会被静默跳过。
	Idle State = iota
	// Dirty 表示输入已变更，当前预览计划已过期。
	Dirty
	// Clean 表示预览计划与当前输入一致。
	Clean
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dirty:
		return "dirty"
	case Clean:
		return "clean"
	default:
		return "unknown"
	}
}

// Session 持有一次马赛克作业的全部输入，并跟踪预览的脏标记。
// 输入的任何一次变更都会把状态打回 Dirty；清除图像则回到 Idle。
type Session struct {
	src      *Source
	stream   GlyphStream
	settings Settings
	state    State
}

// NewSession 构造空会话：无图像、空文本（退化为占位字形）、默认设置。
func NewSession() *Session {
	return &Session{
		stream:   NewGlyphStream(""),
		settings: DefaultSettings(),
		state:    Idle,
	}
}

// SetImage 更换源图像。传入 nil 会清除图像并使会话回到 Idle。
func (s *Session) SetImage(src *Source) {
	s.src = src
	if src == nil {
		s.state = Idle
		return
	}
	s.state = Dirty
}

// SetText 更换马赛克文本。仅在已有图像时标记为 Dirty。
func (s *Session) SetText(text string) {
	s.stream = NewGlyphStream(text)
	s.touch()
}

// SetSettings 更换样式设置（构建时才做范围收敛）。
func (s *Session) SetSettings(settings Settings) {
	s.settings = settings
	s.touch()
}

func (s *Session) touch() {
	if s.src != nil {
		s.state = Dirty
	}
}

// Settings 返回当前设置（未收敛）。
func (s *Session) Settings() Settings {
	return s.settings
}

// State 返回当前预览状态。
func (s *Session) State() State {
	return s.state
}

// PreviewPlan 按当前输入构建预览计划并在成功时转入 Clean。
// detail 非正时取 PreviewDetail。无图像时返回 nil 且状态不变。
func (s *Session) PreviewPlan(baseWidth int, detail float64) *Plan {
	if detail <= 0 {
		detail = PreviewDetail
	}
	plan := Build(s.src, s.stream, s.settings, BuildOptions{
		BaseWidth: baseWidth,
		Scale:     1.0,
		Detail:    detail,
	})
	if plan != nil {
		s.state = Clean
	}
	return plan
}

// ExportPlan 按导出倍率构建高分辨率计划。导出使用独立画布，
// 不影响预览状态。
func (s *Session) ExportPlan(baseWidth int) *Plan {
	return Build(s.src, s.stream, s.settings, ExportOptions(baseWidth))
}

package components

// TimerKind 计时实体类别
type TimerKind int

const (
	TimerKindCooldown TimerKind = iota
	TimerKindCountdown
	TimerKindResources
)

// String 返回类别名称
func (k TimerKind) String() string {
	switch k {
	case TimerKindCooldown:
		return "cooldown"
	case TimerKindCountdown:
		return "countdown"
	case TimerKindResources:
		return "resources"
	default:
		return "unknown"
	}
}

// TimerTagComponent 计时实体的名称标签
// 配置中的 key（如 "dash"、"round"）通过它映射到实体，存档和日志按名称查找
type TimerTagComponent struct {
	Name string    // 配置名称，如 "jetpack"
	Kind TimerKind // 实体类别
}

package components

// CooldownState 冷却状态机的阶段
type CooldownState int

const (
	// CooldownIdle 空闲：量表已满，可以开始消耗
	CooldownIdle CooldownState = iota
	// CooldownConsuming 消耗中：每帧扣减剩余时长
	CooldownConsuming
	// CooldownPauseOnEmpty 耗尽（或被停止）后的停顿期
	CooldownPauseOnEmpty
	// CooldownRefilling 回充中：回满后回到 Idle
	CooldownRefilling
)

// String 返回状态名称（日志与存档使用）
func (s CooldownState) String() string {
	switch s {
	case CooldownIdle:
		return "Idle"
	case CooldownConsuming:
		return "Consuming"
	case CooldownPauseOnEmpty:
		return "PauseOnEmpty"
	case CooldownRefilling:
		return "Refilling"
	default:
		return "Unknown"
	}
}

// ParseCooldownState 将状态名称解析为 CooldownState
// 未知名称返回 CooldownIdle 和 false
func ParseCooldownState(name string) (CooldownState, bool) {
	switch name {
	case "Idle":
		return CooldownIdle, true
	case "Consuming":
		return CooldownConsuming, true
	case "PauseOnEmpty":
		return CooldownPauseOnEmpty, true
	case "Refilling":
		return CooldownRefilling, true
	default:
		return CooldownIdle, false
	}
}

// CooldownComponent 冷却量表组件
// 一个可消耗、可回充的时长量表（如冲刺、喷气背包）
//
// 注意：遵循 ECS 原则，组件仅存储数据，状态转换由 systems.CooldownSystem 负责
//
// 状态流转：
//
//	Idle → Consuming → PauseOnEmpty → Refilling → Idle
type CooldownComponent struct {
	// Unlimited 无限模式：跳过全部消耗/回充逻辑，始终就绪
	Unlimited bool

	// ConsumptionDuration 量表总时长（秒），满量表可持续消耗的时间
	ConsumptionDuration float64
	// PauseOnEmptyDuration 耗尽后开始回充前的停顿时长（秒）
	PauseOnEmptyDuration float64
	// RefillDuration 回充系数，每帧回充 RefillDuration * deltaTime
	RefillDuration float64

	// CanInterruptRefill 回充期间是否允许重新开始消耗
	CanInterruptRefill bool

	// State 当前阶段，只由 Update/Start/Stop 修改
	State CooldownState
	// CurrentDurationLeft 剩余可消耗时长，始终位于 [0, ConsumptionDuration]
	CurrentDurationLeft float64
	// EmptyReachedTimestamp 最近一次进入 PauseOnEmpty 的绝对时间（秒）
	EmptyReachedTimestamp float64
	// LastUpdateAt 最近一次 Update 收到的 now，Stop 用它记录停顿起点
	LastUpdateAt float64

	// OnStateChanged 状态变化回调（可选）
	OnStateChanged func(from, to CooldownState)
}

package components

// CountdownDirection 倒计时方向
type CountdownDirection int

const (
	// CountdownAscending 递增（1, 2, 3 ...）
	CountdownAscending CountdownDirection = iota
	// CountdownDescending 递减（3, 2, 1 ...）
	CountdownDescending
)

// String 返回方向名称
func (d CountdownDirection) String() string {
	if d == CountdownDescending {
		return "Descending"
	}
	return "Ascending"
}

// CountdownFloor 倒计时的"楼层"触发点
// 每经过 FloorValue 秒触发一次 OnFloorReached
type CountdownFloor struct {
	// FloorValue 触发间隔（秒），必须大于 0
	FloorValue float64
	// LastChangedAt 上次触发时的时间值
	LastChangedAt float64
	// OnFloorReached 触发回调
	OnFloorReached func()
	// Script 可选的 tengo 脚本源码，由 CountdownSystem 编译为回调
	Script string
}

// CountdownComponent 倒计时组件
// 支持递增/递减、显示刷新节流、楼层事件、完成回调以及自动重置
//
// 注意：遵循 ECS 原则，组件仅存储数据，逻辑由 systems.CountdownSystem 负责
type CountdownComponent struct {
	// CountdownFrom 起始值（秒）
	CountdownFrom float64
	// CountdownTo 结束值（秒）
	CountdownTo float64
	// Direction 方向，由 From/To 推导（From > To 为递减）
	Direction CountdownDirection

	// CurrentTime 当前值
	CurrentTime float64

	// Floors 楼层列表，按配置顺序检查
	Floors []*CountdownFloor

	// Running 是否正在计时
	Running bool
	// AutoStart 初始化时是否自动开始
	AutoStart bool
	// AutoReset 到达终点后是否自动回到起点继续计时
	AutoReset bool
	// RefreshFrequency 显示刷新间隔（秒），0 表示每帧刷新
	RefreshFrequency float64
	// SpeedMultiplier 速度倍率（2 为两倍速，0.5 为半速）
	SpeedMultiplier float64
	// LastRefreshAt 上次刷新的绝对时间
	LastRefreshAt float64

	// Format 显示格式，如 "00.00"、"00"
	Format string
	// FloorValues 显示前是否向下取整
	FloorValues bool
	// DisplayText 最近一次刷新生成的显示文本
	DisplayText string

	// ConsecutiveCompletions 连续触发完成的帧数，未完成的帧清零
	// AutoReset 且区间短于一帧时，每帧都会触发完成（不做去抖）
	ConsecutiveCompletions int

	// OnComplete 到达终点时触发
	OnComplete func()
	// OnRefresh 每次刷新显示时触发
	OnRefresh func()
}

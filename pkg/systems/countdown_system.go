package systems

import (
	"log"
	"math"

	"github.com/decker502/mmtimer/pkg/components"
	"github.com/decker502/mmtimer/pkg/ecs"
	"github.com/decker502/mmtimer/pkg/utils"
)

// InitializeCountdown 初始化倒计时
//
// 执行内容：
//  1. CurrentTime 设为 CountdownFrom
//  2. 根据 From/To 推导方向
//  3. AutoStart 时开始计时
//  4. 所有楼层的 LastChangedAt 设为 CountdownFrom
func InitializeCountdown(c *components.CountdownComponent) {
	if c == nil {
		return
	}
	c.CurrentTime = c.CountdownFrom
	if c.CountdownFrom > c.CountdownTo {
		c.Direction = components.CountdownDescending
	} else {
		c.Direction = components.CountdownAscending
	}
	if c.AutoStart {
		c.Running = true
	}
	seedFloors(c)
	c.ConsecutiveCompletions = 0
}

// StartCountdown 开始（或继续）计时，只修改 Running
func StartCountdown(c *components.CountdownComponent) components.Result {
	if c == nil || c.Running {
		return components.ResultIgnored
	}
	c.Running = true
	return components.ResultApplied
}

// StopCountdown 暂停计时，只修改 Running
func StopCountdown(c *components.CountdownComponent) components.Result {
	if c == nil || !c.Running {
		return components.ResultIgnored
	}
	c.Running = false
	return components.ResultApplied
}

// ResetCountdown 回到起始值并重新初始化
func ResetCountdown(c *components.CountdownComponent) {
	if c == nil {
		return
	}
	c.CurrentTime = c.CountdownFrom
	InitializeCountdown(c)
}

// UpdateCountdown 推进倒计时
//
// 执行流程（顺序固定）：
//  1. 按方向推进 CurrentTime（deltaTime * SpeedMultiplier）
//  2. 距上次刷新超过 RefreshFrequency 时生成显示文本并触发 OnRefresh
//  3. 检查所有楼层，同一帧可触发多个
//  4. 检查是否到达终点
//
// 未运行时为空操作（返回 ResultIgnored）。
//
// 注意：AutoReset 且区间短于一帧时，每帧都会触发 OnComplete，不做去抖。
// 调用方可通过 ConsecutiveCompletions 发现这种情况。
func UpdateCountdown(c *components.CountdownComponent, deltaTime, now float64) components.Result {
	if c == nil || !c.Running {
		return components.ResultIgnored
	}
	if deltaTime < 0 {
		deltaTime = 0
	}

	advanceCountdown(c, deltaTime)
	refreshCountdown(c, now)
	checkFloors(c)

	if checkCountdownEnd(c) {
		c.ConsecutiveCompletions++
	} else {
		c.ConsecutiveCompletions = 0
	}

	return components.ResultApplied
}

// CountdownProgress 返回已走过的比例 [0, 1]
func CountdownProgress(c *components.CountdownComponent) float64 {
	if c == nil {
		return 0
	}
	span := c.CountdownTo - c.CountdownFrom
	if span == 0 {
		return 1
	}
	return clamp01((c.CurrentTime - c.CountdownFrom) / span)
}

// CountdownText 按组件的格式设置生成显示文本
func CountdownText(c *components.CountdownComponent) string {
	if c == nil {
		return ""
	}
	value := c.CurrentTime
	if c.FloorValues {
		value = math.Floor(value)
	}
	return utils.FormatNumber(value, c.Format)
}

func advanceCountdown(c *components.CountdownComponent, deltaTime float64) {
	step := deltaTime * c.SpeedMultiplier
	if c.Direction == components.CountdownDescending {
		c.CurrentTime -= step
	} else {
		c.CurrentTime += step
	}
}

func refreshCountdown(c *components.CountdownComponent, now float64) {
	if now-c.LastRefreshAt <= c.RefreshFrequency {
		return
	}
	c.DisplayText = CountdownText(c)
	if c.OnRefresh != nil {
		c.OnRefresh()
	}
	c.LastRefreshAt = now
}

// checkFloors 检查楼层
//
// |CurrentTime - LastChangedAt| >= FloorValue 时触发回调，
// 然后 LastChangedAt 沿计时方向前进恰好一个 FloorValue（不对齐到整倍数）。
// 首次触发时 LastChangedAt 等于 CountdownFrom，即从起点开始计量。
// 非正数或非有限的 FloorValue 视为未配置。
func checkFloors(c *components.CountdownComponent) {
	for _, floor := range c.Floors {
		if floor == nil || !(floor.FloorValue > 0) || math.IsInf(floor.FloorValue, 0) {
			continue
		}
		if math.Abs(c.CurrentTime-floor.LastChangedAt) < floor.FloorValue {
			continue
		}

		if floor.OnFloorReached != nil {
			floor.OnFloorReached()
		}

		if c.Direction == components.CountdownDescending {
			floor.LastChangedAt -= floor.FloorValue
		} else {
			floor.LastChangedAt += floor.FloorValue
		}
	}
}

// checkCountdownEnd 检查终点，返回本帧是否完成
func checkCountdownEnd(c *components.CountdownComponent) bool {
	var reached bool
	if c.Direction == components.CountdownDescending {
		reached = c.CurrentTime <= c.CountdownTo
	} else {
		reached = c.CurrentTime >= c.CountdownTo
	}
	if !reached {
		return false
	}

	if c.OnComplete != nil {
		c.OnComplete()
	}

	if c.AutoReset {
		c.CurrentTime = c.CountdownFrom
		seedFloors(c)
		c.Running = true
	} else {
		c.CurrentTime = c.CountdownTo
		c.Running = false
	}
	return true
}

func seedFloors(c *components.CountdownComponent) {
	for _, floor := range c.Floors {
		if floor != nil {
			floor.LastChangedAt = c.CountdownFrom
		}
	}
}

// CountdownSystem 倒计时系统
//
// 职责：
//   - 每帧推进所有拥有 CountdownComponent 的实体
//   - 发现 AutoReset 每帧都在完成时输出一次警告
type CountdownSystem struct {
	entityManager *ecs.EntityManager

	// verbose 是否输出详细日志
	verbose bool
}

// NewCountdownSystem 创建倒计时系统
func NewCountdownSystem(em *ecs.EntityManager) *CountdownSystem {
	return &CountdownSystem{
		entityManager: em,
	}
}

// SetVerbose 设置是否输出详细日志
func (s *CountdownSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 推进所有倒计时
//
// 参数：
//   - deltaTime: 帧间隔（秒）
//   - now: 当前绝对时间（秒）
func (s *CountdownSystem) Update(deltaTime, now float64) {
	entities := ecs.GetEntitiesWith1[*components.CountdownComponent](s.entityManager)
	for _, id := range entities {
		cd, ok := ecs.GetComponent[*components.CountdownComponent](s.entityManager, id)
		if !ok {
			continue
		}

		wasRunning := cd.Running
		if UpdateCountdown(cd, deltaTime, now) == components.ResultIgnored {
			continue
		}

		if cd.ConsecutiveCompletions == 2 {
			log.Printf("[CountdownSystem] Warning: entity %d completes every tick (span %.3fs shorter than a frame)",
				id, math.Abs(cd.CountdownTo-cd.CountdownFrom))
		}

		if s.verbose && wasRunning && !cd.Running {
			log.Printf("[CountdownSystem] Entity %d finished at %.3f (now %.3fs)", id, cd.CurrentTime, now)
		}
	}
}

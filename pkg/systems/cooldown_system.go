package systems

import (
	"log"

	"github.com/decker502/mmtimer/pkg/components"
	"github.com/decker502/mmtimer/pkg/ecs"
)

// timeEpsilon 比较累积时间时允许的浮点误差
// 0.1 累加 50 次与一次 5.0 应得到相同结果
const timeEpsilon = 1e-9

// InitializeCooldown 重置冷却量表：回到 Idle，剩余时长填满
// 幂等，可随时调用以强制重置
func InitializeCooldown(c *components.CooldownComponent) {
	if c == nil {
		return
	}
	c.CurrentDurationLeft = clampDuration(c.ConsumptionDuration, c.ConsumptionDuration)
	c.EmptyReachedTimestamp = 0
	setCooldownState(c, components.CooldownIdle)
}

// CooldownReady 判断量表当前是否可以开始消耗
//
// 就绪条件（满足其一）：
//   - 无限模式
//   - Idle
//   - Refilling 且允许打断回充
func CooldownReady(c *components.CooldownComponent) bool {
	if c == nil {
		return false
	}
	if c.Unlimited {
		return true
	}
	switch c.State {
	case components.CooldownIdle:
		return true
	case components.CooldownRefilling:
		return c.CanInterruptRefill
	default:
		return false
	}
}

// StartCooldown 开始消耗
//
// 未就绪时静默忽略（返回 ResultIgnored），这是有意的背压而不是错误。
// 无限模式下返回 ResultApplied，但不修改 State。
func StartCooldown(c *components.CooldownComponent) components.Result {
	if !CooldownReady(c) {
		return components.ResultIgnored
	}
	if c.Unlimited {
		return components.ResultApplied
	}
	setCooldownState(c, components.CooldownConsuming)
	return components.ResultApplied
}

// StopCooldown 停止消耗，进入 PauseOnEmpty
// 停顿起点记为最近一次 Update 的时间；非 Consuming 状态下忽略
func StopCooldown(c *components.CooldownComponent) components.Result {
	if c == nil || c.Unlimited || c.State != components.CooldownConsuming {
		return components.ResultIgnored
	}
	c.EmptyReachedTimestamp = c.LastUpdateAt
	setCooldownState(c, components.CooldownPauseOnEmpty)
	return components.ResultApplied
}

// UpdateCooldown 推进冷却状态机
//
// 每帧都应调用；无限模式或 Idle 时为空操作（返回 ResultIgnored）。
//
// 参数：
//   - deltaTime: 自上一帧以来经过的时间（秒），负值按 0 处理
//   - now: 当前绝对时间（秒）
func UpdateCooldown(c *components.CooldownComponent, deltaTime, now float64) components.Result {
	if c == nil || c.Unlimited {
		return components.ResultIgnored
	}
	if deltaTime < 0 {
		deltaTime = 0
	}
	c.LastUpdateAt = now

	switch c.State {
	case components.CooldownConsuming:
		if c.CurrentDurationLeft-deltaTime <= 0 {
			c.CurrentDurationLeft = 0
			c.EmptyReachedTimestamp = now
			setCooldownState(c, components.CooldownPauseOnEmpty)
		} else {
			c.CurrentDurationLeft = clampDuration(c.CurrentDurationLeft-deltaTime, c.ConsumptionDuration)
		}

	case components.CooldownPauseOnEmpty:
		if now-c.EmptyReachedTimestamp+timeEpsilon >= c.PauseOnEmptyDuration {
			setCooldownState(c, components.CooldownRefilling)
		}

	case components.CooldownRefilling:
		refill := c.RefillDuration * deltaTime
		if c.CurrentDurationLeft+refill >= c.ConsumptionDuration {
			c.CurrentDurationLeft = clampDuration(c.ConsumptionDuration, c.ConsumptionDuration)
			setCooldownState(c, components.CooldownIdle)
		} else {
			c.CurrentDurationLeft = clampDuration(c.CurrentDurationLeft+refill, c.ConsumptionDuration)
		}

	default:
		return components.ResultIgnored
	}

	return components.ResultApplied
}

// CooldownProgress 返回量表填充比例 [0, 1]
// 无限模式或总时长为 0 时视为满
func CooldownProgress(c *components.CooldownComponent) float64 {
	if c == nil {
		return 0
	}
	if c.Unlimited || c.ConsumptionDuration <= 0 {
		return 1
	}
	return clamp01(c.CurrentDurationLeft / c.ConsumptionDuration)
}

// setCooldownState 切换状态并通知观察者
func setCooldownState(c *components.CooldownComponent, next components.CooldownState) {
	prev := c.State
	if prev == next {
		return
	}
	c.State = next
	if c.OnStateChanged != nil {
		c.OnStateChanged(prev, next)
	}
}

// clampDuration 将剩余时长限制在 [0, max]，NaN 按 0 处理
func clampDuration(v, max float64) float64 {
	if !(max >= 0) {
		max = 0
	}
	if !(v >= 0) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CooldownSystem 冷却系统
//
// 职责：
//   - 每帧推进所有拥有 CooldownComponent 的实体
//   - 详细模式下记录状态切换
//
// 架构说明：
//   - 状态转换逻辑位于包级函数（InitializeCooldown/StartCooldown/...），便于单独测试
//   - 系统本身不持有时钟，now 由调用方提供
type CooldownSystem struct {
	entityManager *ecs.EntityManager

	// verbose 是否输出详细日志
	verbose bool
}

// NewCooldownSystem 创建冷却系统
func NewCooldownSystem(em *ecs.EntityManager) *CooldownSystem {
	return &CooldownSystem{
		entityManager: em,
	}
}

// SetVerbose 设置是否输出每次状态切换的日志
func (s *CooldownSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 推进所有冷却量表
//
// 参数：
//   - deltaTime: 帧间隔（秒）
//   - now: 当前绝对时间（秒）
func (s *CooldownSystem) Update(deltaTime, now float64) {
	entities := ecs.GetEntitiesWith1[*components.CooldownComponent](s.entityManager)
	for _, id := range entities {
		cd, ok := ecs.GetComponent[*components.CooldownComponent](s.entityManager, id)
		if !ok {
			continue
		}

		prev := cd.State
		UpdateCooldown(cd, deltaTime, now)

		if s.verbose && cd.State != prev {
			log.Printf("[CooldownSystem] Entity %d: %s -> %s at %.3fs (left %.3fs)",
				id, prev, cd.State, now, cd.CurrentDurationLeft)
		}
	}
}

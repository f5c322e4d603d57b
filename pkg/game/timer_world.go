package game

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/decker502/mmtimer/pkg/components"
	"github.com/decker502/mmtimer/pkg/config"
	"github.com/decker502/mmtimer/pkg/ecs"
	"github.com/decker502/mmtimer/pkg/entities"
	"github.com/decker502/mmtimer/pkg/systems"
)

// ErrTimerNotFound 名称在当前配置中不存在
var ErrTimerNotFound = errors.New("timer not found")

// EventKind 计时事件类型
type EventKind int

const (
	// EventStateChanged 冷却量表状态切换
	EventStateChanged EventKind = iota
	// EventFloorReached 倒计时经过一个楼层
	EventFloorReached
	// EventCompleted 倒计时到达终点
	EventCompleted
	// EventRefreshed 倒计时显示文本刷新
	EventRefreshed
)

// String 返回事件类型名称
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "StateChanged"
	case EventFloorReached:
		return "FloorReached"
	case EventCompleted:
		return "Completed"
	case EventRefreshed:
		return "Refreshed"
	default:
		return "Unknown"
	}
}

// Event 计时事件
type Event struct {
	Kind  EventKind
	Timer string  // 配置名称
	Now   float64 // 事件发生时的世界时间
	// Value 倒计时事件为 CurrentTime，冷却事件为 CurrentDurationLeft
	Value float64
	// FloorValue 仅 EventFloorReached 有效
	FloorValue float64
	// From/To 仅 EventStateChanged 有效
	From, To components.CooldownState
}

// String 返回单行描述（日志与事件面板使用）
func (e Event) String() string {
	switch e.Kind {
	case EventStateChanged:
		return fmt.Sprintf("[%.2f] %s: %s -> %s", e.Now, e.Timer, e.From, e.To)
	case EventFloorReached:
		return fmt.Sprintf("[%.2f] %s: floor %g at %.2f", e.Now, e.Timer, e.FloorValue, e.Value)
	default:
		return fmt.Sprintf("[%.2f] %s: %s at %.2f", e.Now, e.Timer, e.Kind, e.Value)
	}
}

// TimerWorld 计时世界
//
// 职责：
//   - 根据 TimerConfig 创建冷却、倒计时、资源实体
//   - 维护世界时钟 now，每次 Tick 推进并驱动各系统
//   - 按名称提供操作入口，并把组件回调转换为 Event
//   - 生成/恢复快照，配置热重载时保留运行状态
//
// 架构说明：
//   - 非并发安全，所有调用应来自同一个帧循环
//   - 系统执行顺序固定：先冷却，后倒计时
type TimerWorld struct {
	config          *config.TimerConfig
	entityManager   *ecs.EntityManager
	cooldownSystem  *systems.CooldownSystem
	countdownSystem *systems.CountdownSystem

	cooldowns  map[string]ecs.EntityID
	countdowns map[string]ecs.EntityID
	resources  ecs.EntityID

	now       float64
	verbose   bool
	listeners []func(Event)
}

// NewTimerWorld 根据配置创建计时世界
//
// 参数：
//   - cfg: 已验证的计时器配置
//
// 返回：
//   - *TimerWorld: 世界时钟从 0 开始
//   - error: 配置为 nil 或楼层脚本编译失败
func NewTimerWorld(cfg *config.TimerConfig) (*TimerWorld, error) {
	w := &TimerWorld{}
	if err := w.build(cfg); err != nil {
		return nil, err
	}
	return w, nil
}

// build 用新配置重建全部实体，保留 now、verbose 与监听器
func (w *TimerWorld) build(cfg *config.TimerConfig) error {
	if cfg == nil {
		return fmt.Errorf("timer config is nil")
	}

	em := ecs.NewEntityManager()
	cooldowns := make(map[string]ecs.EntityID, len(cfg.Cooldowns))
	countdowns := make(map[string]ecs.EntityID, len(cfg.Countdowns))

	for _, name := range cfg.CooldownNames() {
		id := entities.NewCooldownEntity(em, name, cfg.Cooldowns[name])
		cooldowns[name] = id
	}

	for _, name := range cfg.CountdownNames() {
		id, err := entities.NewCountdownEntity(em, name, cfg.Countdowns[name])
		if err != nil {
			return err
		}
		countdowns[name] = id
	}

	resources := entities.NewResourceGroupEntity(em, cfg.Resources)

	w.config = cfg
	w.entityManager = em
	w.cooldowns = cooldowns
	w.countdowns = countdowns
	w.resources = resources
	w.cooldownSystem = systems.NewCooldownSystem(em)
	w.countdownSystem = systems.NewCountdownSystem(em)
	w.cooldownSystem.SetVerbose(w.verbose)
	w.countdownSystem.SetVerbose(w.verbose)

	for name, id := range cooldowns {
		w.bindCooldown(name, id)
	}
	for name, id := range countdowns {
		w.bindCountdown(name, id)
	}

	log.Printf("[TimerWorld] Built %d cooldowns, %d countdowns, %d resources",
		len(cooldowns), len(countdowns), len(cfg.Resources))
	return nil
}

func (w *TimerWorld) bindCooldown(name string, id ecs.EntityID) {
	cd, ok := ecs.GetComponent[*components.CooldownComponent](w.entityManager, id)
	if !ok {
		return
	}
	cd.OnStateChanged = func(from, to components.CooldownState) {
		w.emit(Event{
			Kind:  EventStateChanged,
			Timer: name,
			Value: cd.CurrentDurationLeft,
			From:  from,
			To:    to,
		})
	}
}

func (w *TimerWorld) bindCountdown(name string, id ecs.EntityID) {
	cd, ok := ecs.GetComponent[*components.CountdownComponent](w.entityManager, id)
	if !ok {
		return
	}

	cd.OnComplete = func() {
		w.emit(Event{Kind: EventCompleted, Timer: name, Value: cd.CurrentTime})
	}
	cd.OnRefresh = func() {
		w.emit(Event{Kind: EventRefreshed, Timer: name, Value: cd.CurrentTime})
	}

	for _, floor := range cd.Floors {
		floor := floor
		scripted := floor.OnFloorReached
		floor.OnFloorReached = func() {
			if scripted != nil {
				scripted()
			}
			w.emit(Event{
				Kind:       EventFloorReached,
				Timer:      name,
				Value:      cd.CurrentTime,
				FloorValue: floor.FloorValue,
			})
		}
	}
}

func (w *TimerWorld) emit(e Event) {
	e.Now = w.now
	for _, fn := range w.listeners {
		fn(e)
	}
}

// OnEvent 注册事件监听器，按注册顺序调用
func (w *TimerWorld) OnEvent(fn func(Event)) {
	if fn != nil {
		w.listeners = append(w.listeners, fn)
	}
}

// SetVerbose 设置系统是否输出详细日志
func (w *TimerWorld) SetVerbose(verbose bool) {
	w.verbose = verbose
	w.cooldownSystem.SetVerbose(verbose)
	w.countdownSystem.SetVerbose(verbose)
}

// Tick 推进一帧
//
// 世界时钟先增加 deltaTime，再以新的 now 依次更新冷却和倒计时系统。
// 负数 deltaTime 视为 0。
func (w *TimerWorld) Tick(deltaTime float64) {
	if deltaTime < 0 || math.IsNaN(deltaTime) {
		deltaTime = 0
	}
	w.now += deltaTime
	w.cooldownSystem.Update(deltaTime, w.now)
	w.countdownSystem.Update(deltaTime, w.now)
}

// Now 返回世界时间（秒）
func (w *TimerWorld) Now() float64 {
	return w.now
}

// Config 返回当前配置
func (w *TimerWorld) Config() *config.TimerConfig {
	return w.config
}

// EntityManager 返回底层实体管理器（只读用途）
func (w *TimerWorld) EntityManager() *ecs.EntityManager {
	return w.entityManager
}

// CooldownNames 返回排序后的冷却名称
func (w *TimerWorld) CooldownNames() []string {
	return w.config.CooldownNames()
}

// CountdownNames 返回排序后的倒计时名称
func (w *TimerWorld) CountdownNames() []string {
	return w.config.CountdownNames()
}

// Cooldown 按名称获取冷却组件
func (w *TimerWorld) Cooldown(name string) (*components.CooldownComponent, bool) {
	id, ok := w.cooldowns[name]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.CooldownComponent](w.entityManager, id)
}

// Countdown 按名称获取倒计时组件
func (w *TimerWorld) Countdown(name string) (*components.CountdownComponent, bool) {
	id, ok := w.countdowns[name]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.CountdownComponent](w.entityManager, id)
}

// Resources 返回资源组
func (w *TimerWorld) Resources() *components.ResourceGroupComponent {
	group, _ := ecs.GetComponent[*components.ResourceGroupComponent](w.entityManager, w.resources)
	return group
}

// StartCooldown 按名称开始消耗
func (w *TimerWorld) StartCooldown(name string) (components.Result, error) {
	cd, ok := w.Cooldown(name)
	if !ok {
		return components.ResultIgnored, fmt.Errorf("%w: cooldown %s", ErrTimerNotFound, name)
	}
	return systems.StartCooldown(cd), nil
}

// StopCooldown 按名称停止消耗
func (w *TimerWorld) StopCooldown(name string) (components.Result, error) {
	cd, ok := w.Cooldown(name)
	if !ok {
		return components.ResultIgnored, fmt.Errorf("%w: cooldown %s", ErrTimerNotFound, name)
	}
	return systems.StopCooldown(cd), nil
}

// StartCountdown 按名称开始倒计时
func (w *TimerWorld) StartCountdown(name string) (components.Result, error) {
	cd, ok := w.Countdown(name)
	if !ok {
		return components.ResultIgnored, fmt.Errorf("%w: countdown %s", ErrTimerNotFound, name)
	}
	return systems.StartCountdown(cd), nil
}

// StopCountdown 按名称暂停倒计时
func (w *TimerWorld) StopCountdown(name string) (components.Result, error) {
	cd, ok := w.Countdown(name)
	if !ok {
		return components.ResultIgnored, fmt.Errorf("%w: countdown %s", ErrTimerNotFound, name)
	}
	return systems.StopCountdown(cd), nil
}

// ResetCountdown 按名称重置倒计时
func (w *TimerWorld) ResetCountdown(name string) error {
	cd, ok := w.Countdown(name)
	if !ok {
		return fmt.Errorf("%w: countdown %s", ErrTimerNotFound, name)
	}
	systems.ResetCountdown(cd)
	cd.DisplayText = systems.CountdownText(cd)
	return nil
}

// ApplyResource 对资源加减
func (w *TimerWorld) ApplyResource(name string, delta float64) (float64, error) {
	value, ok := systems.ApplyResourceDelta(w.Resources(), name, delta)
	if !ok {
		return 0, fmt.Errorf("%w: resource %s", ErrTimerNotFound, name)
	}
	return value, nil
}

// Snapshot 生成当前运行状态的快照
func (w *TimerWorld) Snapshot() *WorldSnapshot {
	snap := NewWorldSnapshot()
	snap.Now = w.now

	for name := range w.cooldowns {
		cd, ok := w.Cooldown(name)
		if !ok {
			continue
		}
		snap.Cooldowns[name] = CooldownSnapshot{
			State:                 cd.State.String(),
			CurrentDurationLeft:   cd.CurrentDurationLeft,
			EmptyReachedTimestamp: cd.EmptyReachedTimestamp,
			LastUpdateAt:          cd.LastUpdateAt,
		}
	}

	for name := range w.countdowns {
		cd, ok := w.Countdown(name)
		if !ok {
			continue
		}
		marks := make([]float64, len(cd.Floors))
		for i, floor := range cd.Floors {
			marks[i] = floor.LastChangedAt
		}
		snap.Countdowns[name] = CountdownSnapshot{
			CurrentTime:   cd.CurrentTime,
			Running:       cd.Running,
			LastRefreshAt: cd.LastRefreshAt,
			FloorMarks:    marks,
		}
	}

	if group := w.Resources(); group != nil {
		for name, r := range group.Resources {
			snap.Resources[name] = ResourceSnapshot{Current: r.Current, Max: r.Max}
		}
	}

	return snap
}

// Restore 用快照覆盖运行状态
//
// 规则：
//   - 只恢复当前配置中存在的名称，其余记录日志后跳过
//   - 冷却剩余时长限制在 [0, ConsumptionDuration]，未知状态回到 Idle
//   - 倒计时 CurrentTime 限制在 [From, To] 区间内；楼层数量变化时重新从起点计量
//   - 资源最大值以当前配置为准
//
// 恢复过程不触发任何回调。
func (w *TimerWorld) Restore(snap *WorldSnapshot) {
	if snap == nil {
		return
	}
	w.now = snap.Now

	for name, s := range snap.Cooldowns {
		cd, ok := w.Cooldown(name)
		if !ok {
			log.Printf("[TimerWorld] Snapshot cooldown %s not in config, skipped", name)
			continue
		}
		state, known := components.ParseCooldownState(s.State)
		if !known {
			log.Printf("[TimerWorld] Snapshot cooldown %s has unknown state %q, reset to Idle", name, s.State)
			cd.State = components.CooldownIdle
			cd.CurrentDurationLeft = cd.ConsumptionDuration
			continue
		}
		if cd.Unlimited {
			continue
		}
		cd.State = state
		cd.CurrentDurationLeft = math.Max(0, math.Min(s.CurrentDurationLeft, cd.ConsumptionDuration))
		cd.EmptyReachedTimestamp = s.EmptyReachedTimestamp
		cd.LastUpdateAt = s.LastUpdateAt
	}

	for name, s := range snap.Countdowns {
		cd, ok := w.Countdown(name)
		if !ok {
			log.Printf("[TimerWorld] Snapshot countdown %s not in config, skipped", name)
			continue
		}
		lo := math.Min(cd.CountdownFrom, cd.CountdownTo)
		hi := math.Max(cd.CountdownFrom, cd.CountdownTo)
		cd.CurrentTime = math.Max(lo, math.Min(s.CurrentTime, hi))
		cd.Running = s.Running
		cd.LastRefreshAt = s.LastRefreshAt
		if len(s.FloorMarks) == len(cd.Floors) {
			for i, floor := range cd.Floors {
				floor.LastChangedAt = s.FloorMarks[i]
			}
		} else {
			for _, floor := range cd.Floors {
				floor.LastChangedAt = cd.CountdownFrom
			}
		}
		cd.DisplayText = systems.CountdownText(cd)
	}

	group := w.Resources()
	for name, s := range snap.Resources {
		r, ok := systems.GetResource(group, name)
		if !ok {
			log.Printf("[TimerWorld] Snapshot resource %s not in config, skipped", name)
			continue
		}
		systems.SetResource(group, name, s.Current, r.Max)
	}
}

// Reload 使用新配置重建世界并保留运行状态
//
// 失败时世界保持原状。
func (w *TimerWorld) Reload(cfg *config.TimerConfig) error {
	snap := w.Snapshot()

	// build 只在全部实体创建成功后才替换字段
	if err := w.build(cfg); err != nil {
		return fmt.Errorf("failed to reload timers: %w", err)
	}
	w.Restore(snap)

	log.Printf("[TimerWorld] Reloaded config at %.3fs", w.now)
	return nil
}

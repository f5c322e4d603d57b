package entities

import (
	"fmt"

	"github.com/decker502/mmtimer/internal/script"
	"github.com/decker502/mmtimer/pkg/components"
	"github.com/decker502/mmtimer/pkg/config"
	"github.com/decker502/mmtimer/pkg/ecs"
	"github.com/decker502/mmtimer/pkg/systems"
)

// NewCooldownEntity 创建一个冷却量表实体
// 参数:
//   - manager: EntityManager 实例
//   - name: 配置名称（如 "dash"）
//   - cfg: 冷却配置
//
// 返回: 创建的实体ID，量表处于 Idle 且已充满
func NewCooldownEntity(manager *ecs.EntityManager, name string, cfg *config.CooldownConfig) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.TimerTagComponent{
		Name: name,
		Kind: components.TimerKindCooldown,
	})

	cd := &components.CooldownComponent{
		Unlimited:            cfg.Unlimited,
		ConsumptionDuration:  cfg.ConsumptionDuration,
		PauseOnEmptyDuration: cfg.PauseOnEmptyDuration,
		RefillDuration:       cfg.RefillDuration,
		CanInterruptRefill:   cfg.CanInterruptRefill,
	}
	systems.InitializeCooldown(cd)
	manager.AddComponent(id, cd)

	return id
}

// NewCountdownEntity 创建一个倒计时实体
// 楼层配置了 script 时编译为 OnFloorReached 回调
// 参数:
//   - manager: EntityManager 实例
//   - name: 配置名称（如 "round"）
//   - cfg: 倒计时配置（已填充默认值）
//
// 返回: 创建的实体ID；脚本编译失败时返回错误且不创建实体
func NewCountdownEntity(manager *ecs.EntityManager, name string, cfg *config.CountdownConfig) (ecs.EntityID, error) {
	cd := &components.CountdownComponent{
		CountdownFrom:   cfg.From,
		CountdownTo:     cfg.To,
		Format:          cfg.Format,
		AutoReset:       cfg.AutoReset,
		SpeedMultiplier: cfg.Speed,
		FloorValues:     derefBool(cfg.FloorValues, true),
		AutoStart:       derefBool(cfg.AutoStart, true),
	}
	if cfg.RefreshFrequency != nil {
		cd.RefreshFrequency = *cfg.RefreshFrequency
	} else {
		cd.RefreshFrequency = config.DefaultRefreshFrequency
	}

	for i, fc := range cfg.Floors {
		floor := &components.CountdownFloor{
			FloorValue: fc.Value,
			Script:     fc.Script,
		}
		if fc.Script != "" {
			runner, err := script.Compile(fmt.Sprintf("%s.floor[%d]", name, i), fc.Script)
			if err != nil {
				return 0, fmt.Errorf("countdown %s: %w", name, err)
			}
			floor.OnFloorReached = runner.Callback(func() script.Vars {
				return script.Vars{
					Timer:       name,
					CurrentTime: cd.CurrentTime,
					FloorValue:  floor.FloorValue,
				}
			})
		}
		cd.Floors = append(cd.Floors, floor)
	}

	systems.InitializeCountdown(cd)
	cd.DisplayText = systems.CountdownText(cd)

	id := manager.CreateEntity()
	manager.AddComponent(id, &components.TimerTagComponent{
		Name: name,
		Kind: components.TimerKindCountdown,
	})
	manager.AddComponent(id, cd)

	return id, nil
}

// NewResourceGroupEntity 创建资源组实体（生命、食物、水）
// 参数:
//   - manager: EntityManager 实例
//   - resources: 资源配置，key 为资源名
//
// 返回: 创建的实体ID
func NewResourceGroupEntity(manager *ecs.EntityManager, resources map[string]*config.ResourceConfig) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.TimerTagComponent{
		Name: "resources",
		Kind: components.TimerKindResources,
	})

	group := systems.NewResourceGroup()
	for name, rc := range resources {
		if rc == nil {
			continue
		}
		systems.SetResource(group, name, rc.Current, rc.Max)
	}
	manager.AddComponent(id, group)

	return id
}

func derefBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

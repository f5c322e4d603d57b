package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/decker502/mmtimer/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultTimerConfigPath 嵌入的默认计时器配置路径
const DefaultTimerConfigPath = "data/timers.yaml"

// 默认值
const (
	// DefaultTickRate 默认每秒帧数
	DefaultTickRate = 60
	// DefaultRefreshFrequency 默认显示刷新间隔（秒）
	DefaultRefreshFrequency = 0.02
	// DefaultCountdownFormat 默认显示格式
	DefaultCountdownFormat = "00.00"
)

// TimerConfig 计时器配置文件结构
//
// 配置文件位置: data/timers.yaml（嵌入），可通过 --config 覆盖
type TimerConfig struct {
	// TickRate 逻辑帧率（每秒 Update 次数）
	TickRate int `yaml:"tickRate"`

	// Cooldowns 冷却量表定义，key 为名称
	Cooldowns map[string]*CooldownConfig `yaml:"cooldowns"`

	// Countdowns 倒计时定义，key 为名称
	Countdowns map[string]*CountdownConfig `yaml:"countdowns"`

	// Resources 资源定义，key 为资源名（health/food/water）
	Resources map[string]*ResourceConfig `yaml:"resources"`
}

// CooldownConfig 冷却量表配置
type CooldownConfig struct {
	Unlimited            bool    `yaml:"unlimited"`            // 无限模式
	ConsumptionDuration  float64 `yaml:"consumptionDuration"`  // 满量表可消耗时长（秒）
	PauseOnEmptyDuration float64 `yaml:"pauseOnEmptyDuration"` // 耗尽后停顿时长（秒）
	RefillDuration       float64 `yaml:"refillDuration"`       // 回充系数
	CanInterruptRefill   bool    `yaml:"canInterruptRefill"`   // 回充中可否重新开始
}

// CountdownConfig 倒计时配置
//
// 指针字段用于区分"未配置"与零值：
//   - AutoStart 未配置时为 true
//   - FloorValues 未配置时为 true
//   - RefreshFrequency 未配置时为 0.02，显式配置 0 表示每帧刷新
type CountdownConfig struct {
	From             float64       `yaml:"from"`
	To               float64       `yaml:"to"`
	Format           string        `yaml:"format"`
	FloorValues      *bool         `yaml:"floorValues"`
	AutoStart        *bool         `yaml:"autoStart"`
	AutoReset        bool          `yaml:"autoReset"`
	RefreshFrequency *float64      `yaml:"refreshFrequency"`
	Speed            float64       `yaml:"speed"`
	Floors           []FloorConfig `yaml:"floors"`
}

// FloorConfig 楼层配置
type FloorConfig struct {
	Value  float64 `yaml:"value"`  // 触发间隔（秒）
	Script string  `yaml:"script"` // 可选 tengo 脚本
}

// ResourceConfig 资源配置
type ResourceConfig struct {
	Current float64 `yaml:"current"`
	Max     float64 `yaml:"max"`
}

// LoadTimerConfig 从文件加载计时器配置
//
// 参数:
//   - path: 配置文件路径
//
// 返回:
//   - *TimerConfig: 已填充默认值并通过验证的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadTimerConfig(path string) (*TimerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timer config %s: %w", path, err)
	}

	cfg, err := ParseTimerConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEmbeddedTimerConfig 加载嵌入的默认计时器配置
func LoadEmbeddedTimerConfig() (*TimerConfig, error) {
	data, err := embedded.ReadFile(DefaultTimerConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded timer config: %w", err)
	}
	return ParseTimerConfig(data)
}

// ParseTimerConfig 解析 YAML 数据、填充默认值并验证
func ParseTimerConfig(data []byte) (*TimerConfig, error) {
	var cfg TimerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse timer config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timer config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults 填充未配置的字段
func (c *TimerConfig) applyDefaults() {
	if c.TickRate == 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Cooldowns == nil {
		c.Cooldowns = map[string]*CooldownConfig{}
	}
	if c.Countdowns == nil {
		c.Countdowns = map[string]*CountdownConfig{}
	}
	if c.Resources == nil {
		c.Resources = map[string]*ResourceConfig{}
	}

	for _, cd := range c.Countdowns {
		if cd == nil {
			continue
		}
		if cd.Speed == 0 {
			cd.Speed = 1
		}
		if cd.Format == "" {
			cd.Format = DefaultCountdownFormat
		}
		if cd.FloorValues == nil {
			cd.FloorValues = boolPtr(true)
		}
		if cd.AutoStart == nil {
			cd.AutoStart = boolPtr(true)
		}
		if cd.RefreshFrequency == nil {
			v := DefaultRefreshFrequency
			cd.RefreshFrequency = &v
		}
	}
}

// Validate 验证配置有效性
//
// 检查内容：
//   - tickRate > 0
//   - 所有数值必须是有限数（拒绝 .nan/.inf）
//   - 冷却时长均不能为负
//   - 倒计时速度 > 0，刷新间隔 >= 0，楼层间隔 > 0
//   - 资源最大值 > 0，当前值位于 [0, max]
func (c *TimerConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}

	for _, name := range c.CooldownNames() {
		cd := c.Cooldowns[name]
		if cd == nil {
			return fmt.Errorf("cooldown %s: empty definition", name)
		}
		if !allFinite(cd.ConsumptionDuration, cd.PauseOnEmptyDuration, cd.RefillDuration) {
			return fmt.Errorf("cooldown %s: durations must be finite", name)
		}
		if cd.ConsumptionDuration < 0 || cd.PauseOnEmptyDuration < 0 || cd.RefillDuration < 0 {
			return fmt.Errorf("cooldown %s: durations must be >= 0", name)
		}
	}

	for _, name := range c.CountdownNames() {
		cd := c.Countdowns[name]
		if cd == nil {
			return fmt.Errorf("countdown %s: empty definition", name)
		}
		if !allFinite(cd.From, cd.To) {
			return fmt.Errorf("countdown %s: from/to must be finite", name)
		}
		if !allFinite(cd.Speed) {
			return fmt.Errorf("countdown %s: speed must be finite", name)
		}
		if cd.RefreshFrequency != nil && !allFinite(*cd.RefreshFrequency) {
			return fmt.Errorf("countdown %s: refreshFrequency must be finite", name)
		}
		if cd.Speed <= 0 {
			return fmt.Errorf("countdown %s: speed must be positive, got %.3f", name, cd.Speed)
		}
		if cd.RefreshFrequency != nil && *cd.RefreshFrequency < 0 {
			return fmt.Errorf("countdown %s: refreshFrequency must be >= 0, got %.3f", name, *cd.RefreshFrequency)
		}
		for i, floor := range cd.Floors {
			if !allFinite(floor.Value) {
				return fmt.Errorf("countdown %s: floor %d value must be finite", name, i)
			}
			if floor.Value <= 0 {
				return fmt.Errorf("countdown %s: floor %d value must be positive, got %.3f", name, i, floor.Value)
			}
		}
	}

	for _, name := range c.ResourceNames() {
		r := c.Resources[name]
		if r == nil {
			return fmt.Errorf("resource %s: empty definition", name)
		}
		if !allFinite(r.Current, r.Max) {
			return fmt.Errorf("resource %s: current/max must be finite", name)
		}
		if r.Max <= 0 {
			return fmt.Errorf("resource %s: max must be positive, got %.1f", name, r.Max)
		}
		if r.Current < 0 || r.Current > r.Max {
			return fmt.Errorf("resource %s: current %.1f out of [0, %.1f]", name, r.Current, r.Max)
		}
	}

	return nil
}

// CooldownNames 返回排序后的冷却名称
func (c *TimerConfig) CooldownNames() []string {
	return sortedKeys(c.Cooldowns)
}

// CountdownNames 返回排序后的倒计时名称
func (c *TimerConfig) CountdownNames() []string {
	return sortedKeys(c.Countdowns)
}

// ResourceNames 返回排序后的资源名称
func (c *TimerConfig) ResourceNames() []string {
	return sortedKeys(c.Resources)
}

// TickInterval 返回每帧时长（秒）
func (c *TimerConfig) TickInterval() float64 {
	if c.TickRate <= 0 {
		return 1.0 / DefaultTickRate
	}
	return 1.0 / float64(c.TickRate)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func boolPtr(v bool) *bool {
	return &v
}

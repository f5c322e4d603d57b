package game

import "time"

// SnapshotVersion 当前快照格式版本
const SnapshotVersion = 1

// WorldSnapshot 计时世界的可序列化状态
//
// 只保存运行时状态，不保存配置：恢复时以当前配置为准，
// 配置中已不存在的名称会被跳过。
type WorldSnapshot struct {
	ID      string    `yaml:"id"`      // 每次保存生成的 UUID
	Version int       `yaml:"version"` // 格式版本
	Profile string    `yaml:"profile"` // 存档名
	SavedAt time.Time `yaml:"savedAt"` // 保存时间

	Now        float64                      `yaml:"now"`
	Cooldowns  map[string]CooldownSnapshot  `yaml:"cooldowns"`
	Countdowns map[string]CountdownSnapshot `yaml:"countdowns"`
	Resources  map[string]ResourceSnapshot  `yaml:"resources"`
}

// CooldownSnapshot 冷却量表状态
type CooldownSnapshot struct {
	State                 string  `yaml:"state"`
	CurrentDurationLeft   float64 `yaml:"currentDurationLeft"`
	EmptyReachedTimestamp float64 `yaml:"emptyReachedTimestamp"`
	LastUpdateAt          float64 `yaml:"lastUpdateAt"`
}

// CountdownSnapshot 倒计时状态
type CountdownSnapshot struct {
	CurrentTime   float64   `yaml:"currentTime"`
	Running       bool      `yaml:"running"`
	LastRefreshAt float64   `yaml:"lastRefreshAt"`
	FloorMarks    []float64 `yaml:"floorMarks"` // 各楼层 LastChangedAt，按配置顺序
}

// ResourceSnapshot 单项资源
type ResourceSnapshot struct {
	Current float64 `yaml:"current"`
	Max     float64 `yaml:"max"`
}

// NewWorldSnapshot 创建空快照
func NewWorldSnapshot() *WorldSnapshot {
	return &WorldSnapshot{
		Version:    SnapshotVersion,
		Cooldowns:  make(map[string]CooldownSnapshot),
		Countdowns: make(map[string]CountdownSnapshot),
		Resources:  make(map[string]ResourceSnapshot),
	}
}

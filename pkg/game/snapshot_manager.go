package game

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	snapshotObject = "timers"
	// DefaultProfile 未指定 --profile 时使用的存档名
	DefaultProfile = "default"
)

var (
	// ErrSnapshotNotFound 存档不存在
	ErrSnapshotNotFound = errors.New("snapshot not found")

	profilePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// SnapshotManager 快照管理器
// 负责计时世界状态的保存与加载
//
// 存储：
//   - gdata 对象 "timers"，属性名为存档名，内容为 YAML
//   - gdataManager 为 nil 时降级为内存存储（进程退出即丢失）
type SnapshotManager struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	memory       map[string][]byte // 降级模式下的存储
}

// NewSnapshotManager 创建快照管理器
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，仅内存）
func NewSnapshotManager(gdataManager *gdata.Manager) *SnapshotManager {
	return &SnapshotManager{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// OpenSnapshotManager 打开应用的 gdata 存储并创建快照管理器
// 打开失败时记录警告并降级为内存存储
func OpenSnapshotManager(appName string) *SnapshotManager {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[SnapshotManager] Warning: Failed to open gdata storage: %v (snapshots kept in memory)", err)
		return NewSnapshotManager(nil)
	}
	return NewSnapshotManager(manager)
}

// IsPersistent 是否持久化到磁盘
func (sm *SnapshotManager) IsPersistent() bool {
	return sm.gdataManager != nil
}

// Exists 检查存档是否存在
func (sm *SnapshotManager) Exists(profile string) bool {
	if validateProfile(profile) != nil {
		return false
	}
	if sm.gdataManager == nil {
		_, ok := sm.memory[profile]
		return ok
	}
	return sm.gdataManager.ObjectPropExists(snapshotObject, profile)
}

// Save 保存快照
//
// 每次保存都会生成新的 ID 并更新 SavedAt/Profile/Version
//
// 参数：
//   - profile: 存档名（字母、数字、下划线、连字符）
//   - snap: 要保存的快照
//
// 返回：
//   - error: 存档名无效、序列化或写入失败
func (sm *SnapshotManager) Save(profile string, snap *WorldSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	snap.ID = uuid.NewString()
	snap.Version = SnapshotVersion
	snap.Profile = profile
	snap.SavedAt = time.Now()

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if sm.gdataManager == nil {
		sm.memory[profile] = data
		return nil
	}

	if err := sm.gdataManager.SaveObjectProp(snapshotObject, profile, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Printf("[SnapshotManager] Snapshot %s saved to profile %s", snap.ID, profile)
	return nil
}

// Load 加载快照
//
// 返回：
//   - *WorldSnapshot: 加载的快照
//   - error: 不存在时返回 ErrSnapshotNotFound（可用 errors.Is 判断）
func (sm *SnapshotManager) Load(profile string) (*WorldSnapshot, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	var data []byte
	if sm.gdataManager == nil {
		stored, ok := sm.memory[profile]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, profile)
		}
		data = stored
	} else {
		if !sm.gdataManager.ObjectPropExists(snapshotObject, profile) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, profile)
		}
		loaded, err := sm.gdataManager.LoadObjectProp(snapshotObject, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		data = loaded
	}

	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (*WorldSnapshot, error) {
	snap := NewWorldSnapshot()
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (max %d)", snap.Version, SnapshotVersion)
	}
	if _, err := uuid.Parse(snap.ID); err != nil {
		return nil, fmt.Errorf("invalid snapshot id %q: %w", snap.ID, err)
	}
	return snap, nil
}

func validateProfile(profile string) error {
	if !profilePattern.MatchString(profile) {
		return fmt.Errorf("invalid profile name %q", profile)
	}
	return nil
}

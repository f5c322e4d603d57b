package components

// 常用资源名称
const (
	ResourceHealth = "health"
	ResourceFood   = "food"
	ResourceWater  = "water"
)

// Resource 单项资源的当前值/最大值
type Resource struct {
	Current float64
	Max     float64
}

// ResourceGroupComponent 按名称存储的一组资源（生命、食物、水）
// 纯数据持有者，没有状态转换；读取百分比见 systems.ResourcePercentage
type ResourceGroupComponent struct {
	Resources map[string]*Resource
}

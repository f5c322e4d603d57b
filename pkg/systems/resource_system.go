package systems

import "github.com/decker502/mmtimer/pkg/components"

// NewResourceGroup 创建空的资源组
func NewResourceGroup() *components.ResourceGroupComponent {
	return &components.ResourceGroupComponent{
		Resources: make(map[string]*components.Resource),
	}
}

// GetResource 按名称查找资源
func GetResource(group *components.ResourceGroupComponent, name string) (*components.Resource, bool) {
	if group == nil || group.Resources == nil {
		return nil, false
	}
	r, ok := group.Resources[name]
	return r, ok && r != nil
}

// SetResource 设置（或新建）资源，当前值限制在 [0, max]
func SetResource(group *components.ResourceGroupComponent, name string, current, max float64) {
	if group == nil {
		return
	}
	if group.Resources == nil {
		group.Resources = make(map[string]*components.Resource)
	}
	if max < 0 {
		max = 0
	}
	group.Resources[name] = &components.Resource{
		Current: clampDuration(current, max),
		Max:     max,
	}
}

// ApplyResourceDelta 对资源加减，结果限制在 [0, Max]
//
// 返回：
//   - float64: 修改后的当前值
//   - bool: 资源是否存在
func ApplyResourceDelta(group *components.ResourceGroupComponent, name string, delta float64) (float64, bool) {
	r, ok := GetResource(group, name)
	if !ok {
		return 0, false
	}
	r.Current = clampDuration(r.Current+delta, r.Max)
	return r.Current, true
}

// ResourcePercentage 返回资源百分比 [0, 1]
// Max <= 0 时返回 0
func ResourcePercentage(r *components.Resource) float64 {
	if r == nil || r.Max <= 0 {
		return 0
	}
	return clamp01(r.Current / r.Max)
}

package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// EntityManager 管理实体与组件
//
// 组件按类型分列存储（类型 -> 实体 -> 组件），
// 查询时从最小的一列开始过滤，计时器数量很多时也只遍历相关实体。
type EntityManager struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	stores map[reflect.Type]map[EntityID]interface{}
	// 标记删除、等待 RemoveMarkedEntities 统一清理的实体
	pending []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]map[EntityID]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// DestroyEntity 标记实体待删除，在 RemoveMarkedEntities 时才真正移除
// 避免系统遍历实体列表的过程中修改存储
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.pending = append(em.pending, id)
}

// RemoveMarkedEntities 移除所有标记删除的实体及其组件
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.pending {
		delete(em.alive, id)
		for _, store := range em.stores {
			delete(store, id)
		}
	}
	em.pending = em.pending[:0]
}

// Exists 检查实体是否存在
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	if !em.Exists(id) || component == nil {
		return
	}
	componentType := reflect.TypeOf(component)
	store, ok := em.stores[componentType]
	if !ok {
		store = make(map[EntityID]interface{})
		em.stores[componentType] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	store, ok := em.stores[componentType]
	if !ok {
		return nil, false
	}
	comp, ok := store[id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.GetComponent(id, componentType)
	return ok
}

// GetEntitiesWith 查询同时拥有全部指定组件类型的实体
//
// 参数:
//   - componentTypes: 需要的组件类型，为空时返回全部实体
//
// 返回: 按ID升序排列的实体列表，保证每帧更新顺序稳定
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	if len(componentTypes) == 0 {
		for id := range em.alive {
			result = append(result, id)
		}
		sortIDs(result)
		return result
	}

	// 从最小的一列开始
	var smallest map[EntityID]interface{}
	for _, ct := range componentTypes {
		store, ok := em.stores[ct]
		if !ok || len(store) == 0 {
			return result
		}
		if smallest == nil || len(store) < len(smallest) {
			smallest = store
		}
	}

	for id := range smallest {
		matched := true
		for _, ct := range componentTypes {
			if _, ok := em.stores[ct][id]; !ok {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, id)
		}
	}

	sortIDs(result)
	return result
}

func sortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

package ecs

import "reflect"

// typeOf 返回类型参数 T 对应的 reflect.Type
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 泛型版本的组件添加
//
// 用法：
//
//	ecs.AddComponent(em, id, &components.CooldownComponent{...})
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.AddComponent(id, component)
}

// GetComponent 泛型版本的组件获取，省去类型断言
//
// 用法：
//
//	cd, ok := ecs.GetComponent[*components.CooldownComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasComponent 泛型版本的组件检查
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// RemoveComponent 泛型版本的组件移除
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件 A 的所有实体
func GetEntitiesWith1[A any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[A]())
}

// GetEntitiesWith2 查询同时拥有组件 A、B 的所有实体
func GetEntitiesWith2[A, B any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[A](), typeOf[B]())
}

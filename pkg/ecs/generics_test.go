package ecs

import "testing"

func TestGenericAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testGaugeComponent{Current: 3, Max: 4})

	gauge, ok := GetComponent[*testGaugeComponent](em, id)
	if !ok {
		t.Fatal("Expected gauge component to be found")
	}
	if gauge.Current != 3 || gauge.Max != 4 {
		t.Errorf("Expected (3, 4), got (%f, %f)", gauge.Current, gauge.Max)
	}

	// 未添加的类型
	if _, ok := GetComponent[*testClockComponent](em, id); ok {
		t.Error("Clock component should not be found")
	}

	// 值类型与指针类型是不同的组件类型
	if _, ok := GetComponent[testGaugeComponent](em, id); ok {
		t.Error("Value type should not match pointer component")
	}
}

func TestGenericHasAndRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testClockComponent{})

	if !HasComponent[*testClockComponent](em, id) {
		t.Fatal("Expected clock component after adding")
	}

	RemoveComponent[*testClockComponent](em, id)
	if HasComponent[*testClockComponent](em, id) {
		t.Error("Clock component should be removed")
	}
}

func TestGetEntitiesWithSortedOrder(t *testing.T) {
	em := NewEntityManager()
	ids := make([]EntityID, 0, 20)
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testGaugeComponent{})
		if i%2 == 0 {
			AddComponent(em, id, &testClockComponent{})
		}
		ids = append(ids, id)
	}

	gauges := GetEntitiesWith1[*testGaugeComponent](em)
	if len(gauges) != 20 {
		t.Fatalf("Expected 20 entities, got %d", len(gauges))
	}
	for i := 1; i < len(gauges); i++ {
		if gauges[i-1] >= gauges[i] {
			t.Fatalf("Expected ascending IDs, got %v", gauges)
		}
	}

	both := GetEntitiesWith2[*testGaugeComponent, *testClockComponent](em)
	if len(both) != 10 {
		t.Errorf("Expected 10 entities with both components, got %d", len(both))
	}
}

func TestExistsAndEntityCount(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.CreateEntity()

	if !em.Exists(id) {
		t.Error("Entity should exist")
	}
	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 entities, got %d", em.EntityCount())
	}

	em.DestroyEntity(id)
	em.RemoveMarkedEntities()

	if em.Exists(id) {
		t.Error("Entity should not exist after cleanup")
	}
	if em.EntityCount() != 1 {
		t.Errorf("Expected 1 entity, got %d", em.EntityCount())
	}
}

package script

import "testing"

func TestCompile_EmptySource(t *testing.T) {
	if _, err := Compile("empty", "   "); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	if _, err := Compile("broken", "x := "); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestRunner_ReadsInjectedVars(t *testing.T) {
	r, err := Compile("double", `
doubled := floor_value * 2
label := timer + ":" + string(current_time)
`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if err := r.Run(Vars{Timer: "round", CurrentTime: 50, FloorValue: 10}); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got, ok := r.Get("doubled").(float64); !ok || got != 20 {
		t.Errorf("expected doubled = 20, got %v", r.Get("doubled"))
	}
	if got, ok := r.Get("label").(string); !ok || got != "round:50.0" && got != "round:50" {
		t.Errorf("unexpected label %v", r.Get("label"))
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for undefined variable")
	}
}

func TestRunner_StatePersistsAcrossRuns(t *testing.T) {
	r, err := Compile("latest", `latest := current_time`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	for _, v := range []float64{3, 2, 1} {
		if err := r.Run(Vars{CurrentTime: v}); err != nil {
			t.Fatalf("run error: %v", err)
		}
		if got := r.Get("latest"); got != v {
			t.Errorf("expected latest = %v, got %v", v, got)
		}
	}
}

func TestRunner_RuntimeErrorIsReturned(t *testing.T) {
	r, err := Compile("div", `x := floor_value - "bad"`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if err := r.Run(Vars{FloorValue: 0}); err == nil {
		t.Error("expected invalid operation error")
	}
}

func TestRunner_CallbackSwallowsErrors(t *testing.T) {
	r, err := Compile("div", `x := floor_value - "bad"`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	calls := 0
	cb := r.Callback(func() Vars {
		calls++
		return Vars{FloorValue: 0}
	})

	// 不应 panic
	cb()
	cb()

	if calls != 2 {
		t.Errorf("expected vars provider to be called twice, got %d", calls)
	}
}

func TestRunner_LogBuiltin(t *testing.T) {
	r, err := Compile("logger", `log("reached", floor_value, "at", current_time)`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if err := r.Run(Vars{Timer: "round", CurrentTime: 10, FloorValue: 5}); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if r.Name() != "logger" {
		t.Errorf("expected name logger, got %s", r.Name())
	}
}

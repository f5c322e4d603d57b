package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/mmtimer/pkg/embedded"
)

func TestLoadTimerConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *TimerConfig)
	}{
		{
			name: "valid config",
			yamlContent: `
tickRate: 30
cooldowns:
  dash:
    consumptionDuration: 2
    pauseOnEmptyDuration: 1
    refillDuration: 0.5
    canInterruptRefill: true
  shield:
    unlimited: true
countdowns:
  round:
    from: 60
    to: 0
    format: "00"
    autoReset: true
    refreshFrequency: 0
    floors:
      - value: 10
        script: 'log("ten")'
      - value: 1
resources:
  health:
    current: 80
    max: 100
`,
			validate: func(t *testing.T, cfg *TimerConfig) {
				if cfg.TickRate != 30 {
					t.Errorf("expected tickRate = 30, got %d", cfg.TickRate)
				}
				dash := cfg.Cooldowns["dash"]
				if dash == nil || dash.ConsumptionDuration != 2 || !dash.CanInterruptRefill {
					t.Errorf("unexpected dash config: %+v", dash)
				}
				if !cfg.Cooldowns["shield"].Unlimited {
					t.Error("expected shield to be unlimited")
				}
				round := cfg.Countdowns["round"]
				if round.Format != "00" {
					t.Errorf("expected format 00, got %q", round.Format)
				}
				if *round.RefreshFrequency != 0 {
					t.Errorf("expected explicit refreshFrequency 0 to be kept, got %f", *round.RefreshFrequency)
				}
				if !*round.AutoStart || !*round.FloorValues {
					t.Error("expected autoStart and floorValues to default to true")
				}
				if round.Speed != 1 {
					t.Errorf("expected default speed 1, got %f", round.Speed)
				}
				if len(round.Floors) != 2 || round.Floors[0].Script != `log("ten")` {
					t.Errorf("unexpected floors: %+v", round.Floors)
				}
				if cfg.Resources["health"].Current != 80 {
					t.Errorf("expected health current 80, got %f", cfg.Resources["health"].Current)
				}
			},
		},
		{
			name:        "defaults",
			yamlContent: "countdowns:\n  round:\n    from: 5\n",
			validate: func(t *testing.T, cfg *TimerConfig) {
				if cfg.TickRate != DefaultTickRate {
					t.Errorf("expected default tickRate, got %d", cfg.TickRate)
				}
				round := cfg.Countdowns["round"]
				if round.Format != DefaultCountdownFormat {
					t.Errorf("expected default format, got %q", round.Format)
				}
				if *round.RefreshFrequency != DefaultRefreshFrequency {
					t.Errorf("expected default refreshFrequency, got %f", *round.RefreshFrequency)
				}
				if cfg.Cooldowns == nil || cfg.Resources == nil {
					t.Error("expected empty maps instead of nil")
				}
			},
		},
		{
			name:        "negative cooldown duration",
			yamlContent: "cooldowns:\n  dash:\n    consumptionDuration: -1\n",
			wantErr:     true,
			errContains: "durations must be >= 0",
		},
		{
			name:        "zero floor value",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    floors:\n      - value: 0\n",
			wantErr:     true,
			errContains: "floor 0 value must be positive",
		},
		{
			name:        "negative speed",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    speed: -2\n",
			wantErr:     true,
			errContains: "speed must be positive",
		},
		{
			name:        "resource out of range",
			yamlContent: "resources:\n  food:\n    current: 120\n    max: 100\n",
			wantErr:     true,
			errContains: "out of [0, 100.0]",
		},
		{
			name:        "nan consumption duration",
			yamlContent: "cooldowns:\n  dash:\n    consumptionDuration: .nan\n",
			wantErr:     true,
			errContains: "cooldown dash: durations must be finite",
		},
		{
			name:        "inf pause duration",
			yamlContent: "cooldowns:\n  dash:\n    consumptionDuration: 1\n    pauseOnEmptyDuration: .inf\n",
			wantErr:     true,
			errContains: "cooldown dash: durations must be finite",
		},
		{
			name:        "nan refill duration",
			yamlContent: "cooldowns:\n  dash:\n    consumptionDuration: 1\n    refillDuration: .nan\n",
			wantErr:     true,
			errContains: "cooldown dash: durations must be finite",
		},
		{
			name:        "inf countdown from",
			yamlContent: "countdowns:\n  round:\n    from: .inf\n",
			wantErr:     true,
			errContains: "from/to must be finite",
		},
		{
			name:        "nan countdown to",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    to: .nan\n",
			wantErr:     true,
			errContains: "from/to must be finite",
		},
		{
			name:        "nan speed",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    speed: .nan\n",
			wantErr:     true,
			errContains: "speed must be finite",
		},
		{
			name:        "inf speed",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    speed: .inf\n",
			wantErr:     true,
			errContains: "speed must be finite",
		},
		{
			name:        "nan refresh frequency",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    refreshFrequency: .nan\n",
			wantErr:     true,
			errContains: "refreshFrequency must be finite",
		},
		{
			name:        "nan floor value",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    floors:\n      - value: .nan\n",
			wantErr:     true,
			errContains: "floor 0 value must be finite",
		},
		{
			name:        "inf floor value",
			yamlContent: "countdowns:\n  round:\n    from: 5\n    floors:\n      - value: .inf\n",
			wantErr:     true,
			errContains: "floor 0 value must be finite",
		},
		{
			name:        "nan resource current",
			yamlContent: "resources:\n  food:\n    current: .nan\n    max: 100\n",
			wantErr:     true,
			errContains: "resource food: current/max must be finite",
		},
		{
			name:        "inf resource max",
			yamlContent: "resources:\n  food:\n    current: 10\n    max: .inf\n",
			wantErr:     true,
			errContains: "resource food: current/max must be finite",
		},
		{
			name:        "invalid yaml",
			yamlContent: "cooldowns: [",
			wantErr:     true,
			errContains: "failed to parse timer config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "timers.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg, err := LoadTimerConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadTimerConfig_MissingFile(t *testing.T) {
	_, err := LoadTimerConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read timer config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadEmbeddedTimerConfig(t *testing.T) {
	embedded.Init(fstest.MapFS{
		DefaultTimerConfigPath: {Data: []byte("tickRate: 50\ncooldowns:\n  dash:\n    consumptionDuration: 1\n")},
	})

	cfg, err := LoadEmbeddedTimerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TickRate != 50 {
		t.Errorf("expected tickRate 50, got %d", cfg.TickRate)
	}
	if cfg.TickInterval() != 0.02 {
		t.Errorf("expected tick interval 0.02, got %f", cfg.TickInterval())
	}
}

func TestTimerConfig_SortedNames(t *testing.T) {
	cfg, err := ParseTimerConfig([]byte(`
cooldowns:
  zeta: {consumptionDuration: 1}
  alpha: {consumptionDuration: 1}
  mid: {consumptionDuration: 1}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := cfg.CooldownNames()
	expected := []string{"alpha", "mid", "zeta"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
			break
		}
	}
}

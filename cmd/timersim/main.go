// Command timersim runs the timer world headless for a fixed number of ticks
// and prints every event, which makes tuning config values quick.
//
// Usage (from the repository root):
//
//	go run ./cmd/timersim --ticks 600 --start dash,jetpack
//	go run ./cmd/timersim --config my_timers.yaml --dt 0.1 --save run1
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/mmtimer/pkg/config"
	"github.com/decker502/mmtimer/pkg/embedded"
	"github.com/decker502/mmtimer/pkg/game"
	"github.com/decker502/mmtimer/pkg/systems"
)

var (
	configPath = flag.String("config", "", "Timer config file (defaults to data/timers.yaml in the working directory)")
	ticks      = flag.Int("ticks", 600, "Number of ticks to simulate")
	dt         = flag.Float64("dt", 0, "Seconds per tick (defaults to 1/tickRate)")
	start      = flag.String("start", "", "Comma separated cooldowns to start at tick 0")
	stopAt     = flag.Int("stop-at", -1, "Tick at which the started cooldowns are stopped (-1 = never)")
	refreshes  = flag.Bool("refreshes", false, "Also print countdown refresh events")
	save       = flag.String("save", "", "Save the final state to this snapshot profile")
	load       = flag.String("load", "", "Restore this snapshot profile before simulating")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	world, err := game.NewTimerWorld(cfg)
	if err != nil {
		return err
	}
	world.SetVerbose(*verbose)

	var snapshots *game.SnapshotManager
	if *save != "" || *load != "" {
		snapshots = game.OpenSnapshotManager("mmtimer")
	}
	if *load != "" {
		snap, err := snapshots.Load(*load)
		if err != nil {
			return err
		}
		world.Restore(snap)
		fmt.Printf("restored snapshot %s (t=%.2f)\n", snap.ID, snap.Now)
	}

	world.OnEvent(func(e game.Event) {
		if e.Kind == game.EventRefreshed && !*refreshes {
			return
		}
		fmt.Println(e.String())
	})

	started := splitNames(*start)
	for _, name := range started {
		if _, err := world.StartCooldown(name); err != nil {
			return err
		}
	}

	step := *dt
	if step <= 0 {
		step = cfg.TickInterval()
	}

	for i := 0; i < *ticks; i++ {
		if i == *stopAt {
			for _, name := range started {
				if _, err := world.StopCooldown(name); err != nil {
					return err
				}
			}
		}
		world.Tick(step)
	}

	printSummary(world)

	if *save != "" {
		if err := snapshots.Save(*save, world.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("saved snapshot to profile %s\n", *save)
	}
	return nil
}

func loadConfig() (*config.TimerConfig, error) {
	if *configPath != "" {
		return config.LoadTimerConfig(*configPath)
	}
	embedded.Init(os.DirFS("."))
	if !embedded.Exists(config.DefaultTimerConfigPath) {
		return nil, fmt.Errorf("%s not found: run from the repository root or pass --config", config.DefaultTimerConfigPath)
	}
	return config.LoadEmbeddedTimerConfig()
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func printSummary(world *game.TimerWorld) {
	fmt.Printf("\n=== t=%.3fs ===\n", world.Now())
	for _, name := range world.CooldownNames() {
		cd, _ := world.Cooldown(name)
		fmt.Printf("cooldown  %-10s %-12s %6.3f/%.3f\n", name, cd.State, cd.CurrentDurationLeft, cd.ConsumptionDuration)
	}
	for _, name := range world.CountdownNames() {
		cd, _ := world.Countdown(name)
		fmt.Printf("countdown %-10s %8s running=%v\n", name, systems.CountdownText(cd), cd.Running)
	}
	group := world.Resources()
	for _, name := range world.Config().ResourceNames() {
		if r, ok := systems.GetResource(group, name); ok {
			fmt.Printf("resource  %-10s %6.1f/%.1f (%.0f%%)\n", name, r.Current, r.Max, systems.ResourcePercentage(r)*100)
		}
	}
}

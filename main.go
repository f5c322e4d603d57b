package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/mmtimer/pkg/app"
	"github.com/decker502/mmtimer/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	configPath = flag.String("config", "", "Timer config file (defaults to the embedded data/timers.yaml)")
	profile    = flag.String("profile", "", "Snapshot profile to restore on start and save on exit")
	watchFlag  = flag.Bool("watch", false, "Reload the config file when it changes (requires --config)")
)

func main() {
	flag.Parse()

	// dataFS is declared in embed.go
	embedded.Init(dataFS)

	timerApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Profile:    *profile,
		Watch:      *watchFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer timerApp.Close()

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("MM Timers")
	ebiten.SetTPS(timerApp.TickRate())

	runErr := ebiten.RunGame(timerApp)

	// Persist the timers whether the window was closed or the game failed
	if err := timerApp.Save(); err != nil {
		log.Printf("[Main] Failed to save snapshot: %v", err)
	}

	if runErr != nil {
		log.Fatal(runErr)
	}
}

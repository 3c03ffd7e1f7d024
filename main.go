package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/buffrunner/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the frame overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	seed := flag.Uint64("seed", 0, "seed for pickup kinds (0 picks one)")
	prefabDir := flag.String("prefabs", "", "directory to load and hot reload prefabs from")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if *prefabDir != "" {
		prefabs.SetDir(*prefabDir)
	}
	game, cleanup, err := initGame(Options{Debug: *debug, Seed: *seed})
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.level.Width), int(game.level.Height))
	ebiten.SetWindowTitle("buffrunner")

	if err := run(game); err != nil {
		cleanup()
		log.Fatal(err)
	}
}

package main

import (
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/pulseviz/internal/audio"
	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/game"
)

func main() {
	log.SetPrefix("pulseviz: ")
	log.SetFlags(log.Ltime)

	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Printf("%v", err)
		flag.Usage()
		os.Exit(2)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	engine := audio.NewEngine(config.VisualRingSize, audio.Speaker, nil)
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("%v", err)
		}
	}()

	g, err := game.New(cfg, engine, rng)
	if err != nil {
		log.Fatal(err)
	}
	switch {
	case cfg.File != "":
		g.Open(cfg.File)
	case cfg.Mic:
		g.ToggleMic()
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(config.WindowTitle + " - O: open, M: mic, 1-6: mode, T: theme, Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("%v", err)
		return
	}
}

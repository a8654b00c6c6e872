package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/repairman29/MythSeeker-sub003/internal/config"
	"github.com/repairman29/MythSeeker-sub003/internal/game"
	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var path string
	var seed int64
	flag.StringVar(&path, "scenario", cfg.Scenario, "scenario file (YAML)")
	flag.Int64Var(&seed, "seed", cfg.Seed, "dice seed")
	flag.Parse()
	if path == "" {
		log.Fatal("-scenario is required (or set SKIRMISH_SCENARIO)")
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	doc, err := scenario.Load(path)
	if err != nil {
		logger.Fatal("load scenario", zap.String("path", path), zap.Error(err))
	}
	g, err := game.New(doc, game.Options{TileSize: cfg.TileSize, Seed: seed, Logger: logger})
	if err != nil {
		logger.Fatal("start encounter", zap.Error(err))
	}

	w, h := g.Size()
	ebiten.SetWindowTitle("Skirmish: " + doc.Name)
	ebiten.SetWindowSize(w*cfg.WindowScale, h*cfg.WindowScale)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

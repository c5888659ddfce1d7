package main

import (
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Depth-Sense/internal/game"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	g, err := game.New(logger)
	if err != nil {
		logger.Error("start failed", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("Depth Sense")
	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game exited", "err", err)
		os.Exit(1)
	}
}

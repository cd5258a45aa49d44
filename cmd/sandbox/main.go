package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	sceneName := flag.String("scene", "sandbox", "scene name in scene/scenes/ (basename, .yaml optional)")
	paused := flag.Bool("paused", false, "start paused")
	flag.Parse()

	game, err := NewGame(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	game.paused = *paused

	w, h := game.world.Bounds()
	ebiten.SetWindowSize(int(w), int(h))
	ebiten.SetWindowTitle("rigid2d sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

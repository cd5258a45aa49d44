package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/rigid2d/obj"
	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/scene"
)

const tickMs = 1000.0 / 60.0

// Game steps a physics world at 60 Hz and draws every body's AABB. Editing
// the scene file or its scripts on disk rebuilds the world in place.
type Game struct {
	sceneName string
	world     *physics.World
	objects   []*obj.Object

	watcher *scene.Watcher
	ui      *ebitenui.UI
	paused  bool
	step    bool
	frames  int
}

func NewGame(sceneName string) (*Game, error) {
	g := &Game{sceneName: sceneName}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	g.ui = NewPauseUI(g)
	g.watcher = newSceneWatcher()
	return g, nil
}

// newSceneWatcher watches the on-disk scene dirs when they exist. Running
// from a directory without them just disables hot reload.
func newSceneWatcher() *scene.Watcher {
	dirs := make([]string, 0, 2)
	for _, dir := range []string{"scene/scenes", "scene/scripts"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := scene.NewWatcher(dirs...)
	if err != nil {
		log.Printf("sandbox: watch disabled: %v", err)
		return nil
	}
	return w
}

func (g *Game) loadScene() error {
	spec, err := scene.LoadSpec(g.sceneName)
	if err != nil {
		return err
	}
	world, objects, err := scene.Build(spec)
	if err != nil {
		return err
	}
	g.world = world
	g.objects = objects
	return nil
}

func (g *Game) reload() {
	if err := g.loadScene(); err != nil {
		log.Printf("sandbox: reload %s: %v", g.sceneName, err)
	}
}

// reloadScripts re-binds collision scripts onto the live objects, keeping the
// simulation state. Falls back to a full rebuild when the body list no longer
// matches the spec.
func (g *Game) reloadScripts() {
	spec, err := scene.LoadSpec(g.sceneName)
	if err != nil {
		log.Printf("sandbox: reload %s: %v", g.sceneName, err)
		return
	}
	if err := scene.AttachScripts(spec, g.objects); err != nil {
		log.Printf("sandbox: re-attach scripts: %v; rebuilding scene", err)
		g.reload()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if g.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.step = true
	}

	if !g.paused || g.step {
		g.world.Update(tickMs)
		g.step = false
	}

	if g.paused {
		g.ui.Update()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ev, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch ev.Kind {
			case scene.ScriptChanged:
				log.Printf("sandbox: %s changed, re-attaching scripts", ev.Path)
				g.reloadScripts()
			default:
				log.Printf("sandbox: %s changed, rebuilding scene", ev.Path)
				g.reload()
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("sandbox: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	for _, o := range g.objects {
		bb := o.Shape().BoundingBox()
		x := float32(bb.Left())
		y := float32(bb.Top())
		w := float32(bb.Width())
		h := float32(bb.Height())

		fill := bodyColor(o)
		vector.DrawFilledRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1, colornames.Black, false)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"frames: %d  fps: %.1f  bodies: %d  [space] pause  [n] step  [r] reload",
		g.frames, ebiten.ActualFPS(), len(g.world.Bodies())))

	if g.paused {
		g.ui.Draw(screen)
	}
}

func bodyColor(o *obj.Object) color.Color {
	switch {
	case o.Mass() <= 0:
		return colornames.Seagreen
	case o.OnGround():
		return colornames.Goldenrod
	default:
		return colornames.Cornflowerblue
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.world.Bounds()
	return int(w), int(h)
}

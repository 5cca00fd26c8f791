package main

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/emberforge/ember/engine/colors"
	"github.com/emberforge/ember/engine/core"
	glbackend "github.com/emberforge/ember/engine/gfx/gl"
	"github.com/emberforge/ember/engine/loop"
	"github.com/emberforge/ember/engine/platform"
	"github.com/emberforge/ember/engine/profiler"
	"github.com/emberforge/ember/engine/text"
	"github.com/emberforge/ember/engine/ui"
)

func init() {
	// The event loop and the GL context live on the main thread.
	runtime.LockOSThread()
}

// Widget IDs. Immediate-mode state is keyed by these across frames.
const (
	idButton = iota + 1
	idStatsToggle
)

func main() {
	cfg, err := core.LoadConfig("ember.yaml")
	if err != nil {
		log.Fatalf("demo: config: %v", err)
	}

	var (
		drv       *loop.Driver
		clicks    int
		showStats = true
	)

	b := loop.NewBuilder(cfg).
		Window(func(c core.Config, onEvent func(core.Event)) (core.Window, error) {
			return platform.NewGLFWWindow(c, onEvent)
		}).
		Renderer(func(win core.Window, c core.Config) (core.Renderer, error) {
			return glbackend.NewRendererGL(win, c)
		}).
		Font(func(r core.Renderer) (ui.Font, error) {
			return text.LoadDefault(r, 32)
		}).
		OnFrame(func(ctx *ui.Ctx) {
			buildUI(ctx, drv, &clicks, &showStats)
		})

	drv, err = b.Build()
	if err != nil {
		log.Fatalf("demo: %v", err)
	}

	// A worker requesting repaints from outside the loop, the way a
	// streaming data source would.
	stop := make(chan struct{})
	defer close(stop)
	go func(sig *loop.RepaintSignal) {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				sig.Request()
			case <-stop:
				return
			}
		}
	}(drv.Repaint())

	if err := drv.Run(); err != nil {
		log.Fatalf("demo: %v", err)
	}
}

func buildUI(ctx *ui.Ctx, drv *loop.Driver, clicks *int, showStats *bool) {
	ui.BeginView(ui.Props{
		Axis:       ui.Vertical,
		MainAlign:  ui.Center,
		CrossAlign: ui.Center,
		Gap:        12,
		Bg:         colors.DarkGray,
	})

	ui.Label(ui.LabelProps{Text: "ember", FontSize: 32, Color: colors.Yellow})

	if ui.Button(ui.ButtonProps{
		ID:      idButton,
		Text:    "touch the button!",
		Bg:      colors.Color{0.18, 0.32, 0.55, 1},
		Padding: ui.Insets(16, 10, 16, 10),
	}) {
		*clicks++
		log.Printf("demo: button clicked (%d)", *clicks)
	}
	if *clicks > 0 {
		ui.Label(ui.LabelProps{Text: fmt.Sprintf("touched %d times", *clicks)})
	}

	ui.Spacer(0, 8)
	ui.Checkbox(ui.CheckboxProps{
		ID:      idStatsToggle,
		Text:    "show frame stats",
		Checked: showStats,
	})

	if *showStats && drv != nil {
		st := ctx.Stats()
		delta := drv.Delta().Seconds()
		fps := 0.0
		if delta > 0 {
			fps = 1 / delta
		}
		ui.Spacer(0, 8)
		ui.Label(ui.LabelProps{
			Text:     fmt.Sprintf("frame %.2fms (%.0f fps), ui build %v", delta*1000, fps, drv.UIBuildTime().Round(time.Microsecond)),
			FontSize: 14,
			Color:    colors.Gray,
		})
		ui.Label(ui.LabelProps{
			Text:     fmt.Sprintf("%d quads in %d batches, %d verts", st.Quads, st.Batches, st.Vertices),
			FontSize: 14,
			Color:    colors.Gray,
		})
		ui.Label(ui.LabelProps{
			Text:     fmt.Sprintf("heap %.1f MiB, %d goroutines", float64(profiler.MemoryUsage())/(1024*1024), profiler.NumGoroutine()),
			FontSize: 14,
			Color:    colors.Gray,
		})
	}

	ui.EndView()
}

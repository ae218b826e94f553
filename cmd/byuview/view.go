package main

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/byuview/pkg/render"
	"github.com/taigrr/byuview/pkg/scene"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const viewHelp = `Controls:
  W/S, Up/Down     orbit up/down
  A/D, Left/Right  orbit left/right
  +/-              zoom in/out
  V / E / F        toggle vertices, edges, faces
  L                toggle vertex labels
  X                toggle world axes
  B                toggle bounding box
  I                toggle light marker
  R                reset view
  ?                toggle status line
  Q, Esc           quit`

func newViewCmd() *cobra.Command {
	var (
		flags renderFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "view <scene>",
		Short: "Explore a scene in the terminal",
		Long: "Render a scene to the terminal with half-block pixels and orbit the camera\n" +
			"around the mesh.\n\n" + viewHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), &flags, args[0], max(fps, 1))
		},
	}
	// The frame always fills the terminal, so there are no size flags.
	flags.bind(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	return cmd
}

// viewState holds the toggles driven by the keyboard.
type viewState struct {
	opts       render.Options
	showAxes   bool
	showBounds bool
	showLight  bool
	showStatus bool
}

// lightMarkerColor marks the light position in the viewer.
var lightMarkerColor = render.RGB(255, 220, 64)

func runViewer(ctx context.Context, flags *renderFlags, path string, fps int) error {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	// Two pixels per cell: the buffer follows the terminal size.
	flags.width, flags.height = width, height*2
	opts, err := flags.options()
	if err != nil {
		return err
	}

	s, err := flags.loadScene(path, width, height*2)
	if err != nil {
		return err
	}
	if s.Light() == nil {
		s.SetLight(scene.DefaultLight(s.Mesh))
	}

	base := s.Camera()
	d := base.Distance()
	_, hy := base.HalfExtents()
	target := s.Mesh.Center()
	orbit := OrbitFromCamera(base, target, fps)
	minB, maxB := s.Mesh.GetBounds()
	box := render.AABB{Min: minB, Max: maxB}
	axisLen := max(s.Mesh.Size().Len()/2, 1)
	markerSize := axisLen / 10

	r := render.NewRasterizer(width, height*2, opts)
	state := &viewState{opts: opts, showStatus: true}
	status := &statusLine{name: filepath.Base(path)}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}
	defer cleanup()

	targetDuration := time.Second / time.Duration(fps)
	dirty := true
	events := term.Events()

	for {
		frame := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					r.Resize(width, height*2)
				case uv.KeyPressEvent:
					if handleKey(ev, orbit, state) {
						return nil
					}
				}
				dirty = true
			default:
				break drain
			}
		}

		if orbit.Update() {
			dirty = true
		}
		if !dirty {
			time.Sleep(targetDuration)
			continue
		}
		dirty = false

		r.SetOptions(state.opts)
		hx := hy * float64(r.Width()) / float64(max(r.Height(), 1))
		cam, err := orbit.Camera(d, hx, hy)
		if err == nil {
			err = r.Render(s.Geometry(), cam, s.Light())
		}
		if err != nil {
			status.err = err
		} else {
			status.err = nil
			overlay := render.NewOverlay(cam, r.ZBuffer())
			if state.showBounds {
				overlay.DrawBox(box, render.ColorGray)
			}
			if state.showAxes {
				overlay.DrawAxes(target, axisLen)
			}
			if state.showLight {
				overlay.DrawPoint(s.Light().Position, markerSize, lightMarkerColor)
			}
		}

		term.Draw(r.ZBuffer())
		if state.showStatus {
			status.stats = r.Stats()
			status.mode = state.opts.Mode()
			status.distance = orbit.Distance()
			term.Draw(status)
		}
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(frame); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// orbitImpulse is the angular velocity one key press adds, in radians per
// frame.
const orbitImpulse = 0.04

// handleKey applies a key press to the orbit and view state. It reports
// whether the viewer should quit.
func handleKey(ev uv.KeyPressEvent, orbit *Orbit, state *viewState) bool {
	switch {
	case ev.MatchString("q", "escape", "ctrl+c"):
		return true
	case ev.MatchString("w", "up"):
		orbit.Push(0, orbitImpulse)
	case ev.MatchString("s", "down"):
		orbit.Push(0, -orbitImpulse)
	case ev.MatchString("a", "left"):
		orbit.Push(-orbitImpulse, 0)
	case ev.MatchString("d", "right"):
		orbit.Push(orbitImpulse, 0)
	case ev.MatchString("+", "="):
		orbit.Zoom(0.9)
	case ev.MatchString("-", "_"):
		orbit.Zoom(1 / 0.9)
	case ev.MatchString("v"):
		state.opts.ShowVertices = !state.opts.ShowVertices
	case ev.MatchString("e"):
		state.opts.ShowEdges = !state.opts.ShowEdges
	case ev.MatchString("f"):
		state.opts.ShowFaces = !state.opts.ShowFaces
	case ev.MatchString("l"):
		state.opts.ShowLabels = !state.opts.ShowLabels
	case ev.MatchString("x"):
		state.showAxes = !state.showAxes
	case ev.MatchString("b"):
		state.showBounds = !state.showBounds
	case ev.MatchString("i"):
		state.showLight = !state.showLight
	case ev.MatchString("r"):
		orbit.Reset()
	case ev.MatchString("?", "shift+/"):
		state.showStatus = !state.showStatus
	}
	return false
}

// statusLine draws one row of text over the top of the frame.
type statusLine struct {
	name     string
	mode     render.Mode
	stats    render.Stats
	distance float64
	err      error
}

var (
	statusPrinter = message.NewPrinter(language.English)

	statusFg    = render.RGB(230, 230, 230)
	statusBg    = color.RGBA{20, 20, 28, 255}
	statusErrFg = render.RGB(255, 96, 96)
)

func (s *statusLine) String() string {
	if s.err != nil {
		return fmt.Sprintf(" %s  error: %v ", s.name, s.err)
	}
	return statusPrinter.Sprintf(" %s  %s  %d tris  %d px  dist %.2f  ? hides ",
		s.name, s.mode, s.stats.Triangles, s.stats.Writes, s.distance)
}

// Draw implements uv.Drawable.
func (s *statusLine) Draw(scr uv.Screen, area uv.Rectangle) {
	fg := statusFg
	if s.err != nil {
		fg = statusErrFg
	}
	x := area.Min.X
	for _, r := range s.String() {
		if x >= area.Max.X {
			break
		}
		scr.SetCell(x, area.Min.Y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: statusBg},
		})
		x++
	}
}

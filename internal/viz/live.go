package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
)

const (
	width     = 80
	height    = 24
	trailSize = 120
)

type TickMsg time.Time

// Replay is a finished run to play back.
type Replay struct {
	Name   string
	FPS    int
	Bodies []dynamics.Body
	Frames []dynamics.Frame
}

// Model plays back recorded frames. Zoom eases toward its target through
// a critically damped spring.
type Model struct {
	replay     Replay
	canvas     *Canvas
	camera     *Camera
	spring     harmonica.Spring
	zoom       float64
	zoomVel    float64
	zoomTarget float64
	playHead   int
	running    bool
	loop       bool
	showForces bool
	showTrails bool
	showHelp   bool
	energy     []float64
	qmax       float64
}

func NewModel(r Replay) (Model, error) {
	if len(r.Frames) == 0 {
		return Model{}, peeps.Errorf("viz.NewModel", peeps.ErrMissingCollaborator, "no frames to replay")
	}
	if r.FPS <= 0 {
		r.FPS = peeps.FrameRate
	}
	for i, f := range r.Frames {
		if len(f.Positions) != len(r.Bodies) || len(f.Velocities) != len(r.Bodies) {
			return Model{}, peeps.Errorf("viz.NewModel", peeps.ErrInvalidParameter,
				"frame %d does not match %d bodies", i, len(r.Bodies))
		}
	}

	var pts []mgl64.Vec3
	for _, f := range r.Frames {
		pts = append(pts, f.Positions...)
	}
	energy := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		energy[i] = f.Kinetic + f.Potential
	}
	qmax := 0.0
	for _, b := range r.Bodies {
		qmax = max(qmax, abs64(b.Charge))
	}

	return Model{
		replay:     r,
		canvas:     NewCanvas(width, height),
		camera:     Fit(pts),
		spring:     harmonica.NewSpring(harmonica.FPS(r.FPS), 6.0, 1.0),
		zoom:       1,
		zoomTarget: 1,
		running:    true,
		loop:       true,
		showTrails: true,
		energy:     energy,
		qmax:       qmax,
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.replay.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
		case "[":
			m.scrub(-m.replay.FPS)
		case "]":
			m.scrub(m.replay.FPS)
		case ",":
			m.scrub(-1)
		case ".":
			m.scrub(1)
		case "l":
			m.loop = !m.loop
		case "f":
			m.showForces = !m.showForces
		case "s":
			m.showTrails = !m.showTrails
		case "t":
			NextTheme()
		case "+", "=":
			m.zoomTarget = min(m.zoomTarget*1.25, 20)
		case "-", "_":
			m.zoomTarget = max(m.zoomTarget/1.25, 0.05)
		case "left", "h":
			m.camera.Rotate(-0.1, 0)
		case "right":
			m.camera.Rotate(0.1, 0)
		case "up", "k":
			m.camera.Rotate(0, 0.1)
		case "down", "j":
			m.camera.Rotate(0, -0.1)
		case "0":
			m.camera.Yaw, m.camera.Pitch = 0, 0
			m.zoomTarget = 1
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.zoom, m.zoomVel = m.spring.Update(m.zoom, m.zoomVel, m.zoomTarget)
	m.camera.Zoom = m.zoom
	if !m.running {
		return
	}
	if m.playHead < len(m.replay.Frames)-1 {
		m.playHead++
	} else if m.loop {
		m.playHead = 0
	} else {
		m.running = false
	}
}

func (m *Model) scrub(n int) {
	m.playHead = min(max(m.playHead+n, 0), len(m.replay.Frames)-1)
}

// Frame returns the frame under the play head.
func (m Model) Frame() dynamics.Frame {
	return m.replay.Frames[m.playHead]
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	f := m.Frame()

	if m.showTrails {
		first := max(0, m.playHead-trailSize)
		for i := range m.replay.Bodies {
			px, py, ok := -1, -1, false
			for _, tf := range m.replay.Frames[first : m.playHead+1] {
				x, y, vis := m.camera.Project(tf.Positions[i], w, h)
				if vis && ok {
					m.canvas.Line(px, py, x, y)
				}
				px, py, ok = x, y, vis
			}
		}
	}

	for i, p := range f.Positions {
		x, y, ok := m.camera.Project(p, w, h)
		if !ok {
			continue
		}
		r := max(1, int(m.replay.Bodies[i].Radius*float64(min(w, h))*m.zoom/(2*m.camera.Extent)))
		m.canvas.Disc(x, y, min(r, 4))
		if m.showForces && i < len(f.Forces) {
			fx, fy, fok := m.camera.Project(p.Add(f.Forces[i]), w, h)
			if fok {
				m.canvas.Arrow(x, y, fx, fy)
			}
		}
	}
}

func (m Model) status() string {
	switch {
	case m.running:
		return StatusRunning.Render("PLAYING")
	case m.playHead == len(m.replay.Frames)-1:
		return StatusPaused.Render("FINISHED")
	}
	return StatusPaused.Render("PAUSED")
}

func (m Model) View() string {
	m.draw()
	f := m.Frame()
	th := CurrentTheme

	var s strings.Builder
	title := strings.ToUpper(m.replay.Name)
	if title == "" {
		title = "REPLAY"
	}
	s.WriteString(GradientText(title, th.Primary, th.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	if n := m.playHead + 1; n > 1 {
		chart := asciigraph.Plot(m.energy[:n], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", f.Time)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", m.playHead+1, len(m.replay.Frames))) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.4g", f.Kinetic)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.4g", f.Potential)) + "\n")
	s.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("%.4g", f.Momentum.Len())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")
	progress := float64(m.playHead) / float64(max(len(m.replay.Frames)-1, 1))
	s.WriteString("\n" + ProgressBar(progress, 30) + "\n")

	s.WriteString("\nBODIES\n")
	for i, b := range m.replay.Bodies {
		dot := lipgloss.NewStyle().Foreground(th.ChargeColor(b.Charge, m.qmax)).Render("●")
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("body %d", i)
		}
		s.WriteString(fmt.Sprintf("%s %-10s |v| %.3g\n", dot, name, f.Velocities[i].Len()))
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit\n[ ]:Seek F:Forces ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return help + "\n\n" + mainView
	}
	return mainView
}

const help = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from frame 0     ║
║  [ ]      - Seek one second          ║
║  , .      - Step one frame           ║
║  L        - Toggle looping           ║
║  F        - Toggle force arrows      ║
║  S        - Toggle trails            ║
║  + -      - Zoom                     ║
║  Arrows   - Rotate camera            ║
║  0        - Reset camera             ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run plays r in the terminal until the user quits.
func Run(r Replay) error {
	m, err := NewModel(r)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

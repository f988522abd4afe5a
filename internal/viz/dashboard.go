package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rhythms/internal/dynamo"
)

const (
	historyCapacity = 240
	trailCapacity   = 120
	panelWidth      = 46
	planeExtent     = 2.0
)

// Source is the command surface the dashboard polls.
type Source interface {
	UpdateRhythm(id string, dt float64) error
	GetRhythmData(id string) (dynamo.Snapshot, error)
}

type TickMsg time.Time

// Dashboard holds the latest snapshot and a short history per rhythm.
type Dashboard struct {
	src      Source
	kinds    []dynamo.Kind
	interval time.Duration

	latest  map[dynamo.Kind]dynamo.Snapshot
	history map[dynamo.Kind][]float64
	trail   [][2]float64

	last     time.Time
	frames   int
	running  bool
	selected int
	theme    int
	showHelp bool
	err      error
}

// NewDashboard polls src at fps frames per second.
func NewDashboard(src Source, fps int) Dashboard {
	if fps <= 0 {
		fps = 60
	}
	return Dashboard{
		src:      src,
		kinds:    dynamo.Kinds(),
		interval: time.Second / time.Duration(fps),
		latest:   make(map[dynamo.Kind]dynamo.Snapshot),
		history:  make(map[dynamo.Kind][]float64),
		running:  true,
		selected: -1,
	}
}

// WithTheme selects a theme by name.
func (m Dashboard) WithTheme(name string) Dashboard {
	for i, t := range Themes {
		if t.Name == name {
			m.theme = i
		}
	}
	return m
}

// WithFrame overrides the polling interval.
func (m Dashboard) WithFrame(d time.Duration) Dashboard {
	if d > 0 {
		m.interval = d
	}
	return m
}

func (m Dashboard) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Dashboard) Init() tea.Cmd {
	return m.tick()
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.selected++
			if m.selected >= len(m.kinds) {
				m.selected = -1
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		if m.running {
			m.poll(dt)
		}
		return m, m.tick()
	}
	return m, nil
}

// poll mirrors one front-end frame: update every rhythm by the measured
// delta, then sample it.
func (m *Dashboard) poll(dt float64) {
	m.frames++
	for _, k := range m.kinds {
		id := k.String()
		if err := m.src.UpdateRhythm(id, dt); err != nil {
			m.err = fmt.Errorf("%s: %w", id, err)
			continue
		}
		snap, err := m.src.GetRhythmData(id)
		if err != nil {
			m.err = fmt.Errorf("%s: %w", id, err)
			continue
		}
		m.latest[k] = snap
		m.record(k, snap)
	}
}

func (m *Dashboard) record(k dynamo.Kind, snap dynamo.Snapshot) {
	m.history[k] = appendCapped(m.history[k], primary(snap), historyCapacity)
	if k == dynamo.VortexField {
		m.trail = append(m.trail, [2]float64{snap.Value(0), snap.Value(1)})
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[len(m.trail)-trailCapacity:]
		}
	}
}

// primary is the scalar each panel plots over time.
func primary(snap dynamo.Snapshot) float64 {
	switch snap.Kind {
	case dynamo.OscillatorNetwork:
		sum := 0.0
		for _, v := range snap.Values {
			sum += v
		}
		return sum
	case dynamo.VortexField:
		return snap.Value(3)
	case dynamo.Attention:
		return snap.Value(2)
	}
	return snap.Value(0)
}

func appendCapped(s []float64, v float64, n int) []float64 {
	s = append(s, v)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func (m Dashboard) View() string {
	th := Themes[m.theme]

	status := lipgloss.NewStyle().Bold(true).Foreground(th.Success).Render("● LIVE")
	if !m.running {
		status = lipgloss.NewStyle().Bold(true).Foreground(th.Warning).Render("❚❚ PAUSED")
	}
	header := th.title().Render("RHYTHMS") + "  " + status + "  " +
		th.muted().Render(fmt.Sprintf("frame %d · theme %s", m.frames, th.Name))

	var body string
	if m.selected >= 0 {
		k := m.kinds[m.selected]
		body = th.panel(panelWidth*2, true).Render(m.panel(k, th, 2))
	} else {
		panels := make([]string, len(m.kinds))
		for i, k := range m.kinds {
			panels[i] = th.panel(panelWidth, false).Render(m.panel(k, th, 1))
		}
		rows := []string{}
		for i := 0; i < len(panels); i += 2 {
			if i+1 < len(panels) {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i], panels[i+1]))
			} else {
				rows = append(rows, panels[i])
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	out := []string{header, body}
	if m.err != nil {
		out = append(out, lipgloss.NewStyle().Foreground(th.Error).Render(m.err.Error()))
	}
	if m.showHelp {
		out = append(out, KeyHint.Render("space pause · tab enlarge panel · t theme · ? help · q quit"))
	} else {
		out = append(out, KeyHint.Render("? help"))
	}
	return strings.Join(out, "\n")
}

func (m Dashboard) panel(k dynamo.Kind, th Theme, scale int) string {
	title := th.title().Render(k.String()) + " " + th.muted().Render(k.Alias())
	snap, ok := m.latest[k]
	if !ok {
		return title + "\n" + th.muted().Render("waiting for first sample")
	}

	var lines []string
	switch k {
	case dynamo.OscillatorNetwork:
		for i, v := range snap.Values {
			lines = append(lines, fmt.Sprintf("ω%d %+.3f", i+1, v))
		}
		if c, ok := snap.Number("coupling_strength"); ok {
			lines = append(lines, th.muted().Render(fmt.Sprintf("coupling %.2f", c)))
		}
		lines = append(lines, m.plot(k, "Σ output", scale))
	case dynamo.Criticality:
		cx, _ := snap.Number("matrix_complexity")
		lines = append(lines,
			fmt.Sprintf("phi %.3f  complexity %.3f", snap.Value(0), cx),
			th.flag("avalanche", snap.Flag("avalanche_active")),
			m.plot(k, "phi", scale),
		)
	case dynamo.TensionRelease:
		n, _ := snap.Number("buffer_size")
		v, _ := snap.Number("variance")
		lines = append(lines,
			"tension   "+Bar(snap.Value(0), 1, 20*scale)+fmt.Sprintf(" %.3f", snap.Value(0)),
			"intensity "+Bar(snap.Value(1), 2, 20*scale)+fmt.Sprintf(" %.3f", snap.Value(1)),
			th.flag("release", snap.Flag("release_active")),
			th.muted().Render(fmt.Sprintf("buffer %d  variance %.5f", int(n), v)),
			Sparkline(m.history[k], 40*scale),
		)
	case dynamo.VortexField:
		plane := NewPlane(20*scale, 5*scale, planeExtent)
		for i := 1; i < len(m.trail); i++ {
			plane.Line(m.trail[i-1][0], m.trail[i-1][1], m.trail[i][0], m.trail[i][1])
		}
		plane.Cross(snap.Value(0), snap.Value(1))
		mag, _ := snap.Number("position_magnitude")
		lines = append(lines,
			plane.String(),
			fmt.Sprintf("pos (%.2f, %.2f, %.2f) |p| %.2f |v| %.3f", snap.Value(0), snap.Value(1), snap.Value(2), mag, snap.Value(3)),
		)
	case dynamo.Attention:
		plane := NewPlane(20*scale, 5*scale, planeExtent)
		if targets, ok := snap.Metadata["targets"].([][]float64); ok {
			for _, t := range targets {
				if len(t) == 2 {
					plane.Cross(t[0], t[1])
				}
			}
		}
		plane.Dot(snap.Value(0), snap.Value(1))
		lines = append(lines,
			plane.String(),
			th.flag("focused", snap.Flag("focused"))+fmt.Sprintf("  strength %.2f", snap.Value(3)),
			"boredom "+Bar(snap.Value(2), 1, 20*scale),
		)
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (m Dashboard) plot(k dynamo.Kind, caption string, scale int) string {
	data := m.history[k]
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(4*scale),
		asciigraph.Width(34*scale),
		asciigraph.Caption(caption),
	)
}

// Run starts the dashboard on the alternate screen and blocks until quit.
func Run(src Source, frame time.Duration, theme string) error {
	p := tea.NewProgram(NewDashboard(src, 0).WithFrame(frame).WithTheme(theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

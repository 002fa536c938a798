package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
	"github.com/matzehuels/circlepack/pkg/scene"
)

// newWatchCmd creates the watch command. It runs the same simulation as
// pack but steps one iteration per animation frame, drawing the current
// arrangement in the terminal. The scene can be committed from inside the
// TUI once the run finishes.
func newWatchCmd() *cobra.Command {
	var opts packOpts
	var fps int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a packing simulation converge live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			applyPackConfig(cmd, &opts, cfg)
			return runWatch(cmd, &opts, cfg, fps)
		},
	}

	def := DefaultConfig().Pack
	cmd.Flags().IntVarP(&opts.count, "count", "n", def.Count, "number of circles")
	cmd.Flags().Float64Var(&opts.minRadius, "min-radius", def.MinRadius, "minimum circle radius")
	cmd.Flags().Float64Var(&opts.maxRadius, "max-radius", def.MaxRadius, "maximum circle radius")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", def.Algorithm, "algorithm: simple, fast, double, random")
	cmd.Flags().IntVar(&opts.iterations, "iterations", def.Iterations, "iteration budget")
	cmd.Flags().Float64Var(&opts.damping, "damping", def.Damping, "initial contraction damping")
	cmd.Flags().Float64Var(&opts.decay, "decay", def.Decay, "per-iteration damping decay")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", def.Tolerance, "allowed overlap tolerance")
	cmd.Flags().Uint64Var(&opts.seed, "seed", pack.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&fps, "fps", 30, "animation frames per second")

	return cmd
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, opts *packOpts, cfg Config, fps int) error {
	algorithm, err := pack.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}
	if fps < 1 || fps > 120 {
		return fmt.Errorf("fps must be between 1 and 120, got %d", fps)
	}

	packer, err := pack.New(geom.Pt(0, 0), pack.Options{
		Count:     opts.count,
		MinRadius: opts.minRadius,
		MaxRadius: opts.maxRadius,
		Seed:      opts.seed,
	})
	if err != nil {
		return err
	}

	model := watchModel{
		packer:    packer,
		algorithm: algorithm,
		damping:   opts.damping,
		decay:     opts.decay,
		tolerance: opts.tolerance,
		budget:    opts.iterations,
		interval:  time.Second / time.Duration(fps),
		start:     time.Now(),
	}

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(watchModel)
	if !ok || !m.commit {
		return nil
	}

	// Commit was requested from inside the TUI.
	st, err := openStore(cmd, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close(cmd.Context())

	sc := scene.FromPacker(packer, opts.params(), pack.Result{
		Iterations: m.iteration,
		Converged:  m.converged,
		Elapsed:    time.Since(m.start),
	})
	if err := st.Put(cmd.Context(), sc); err != nil {
		return fmt.Errorf("committing scene: %w", err)
	}
	printSuccess("Committed scene %s", StyleNumber.Render(sc.ID))
	printStats(len(sc.Circles), sc.Iterations, sc.Converged)
	return nil
}

// =============================================================================
// WatchModel - Live simulation view
// =============================================================================

// tickMsg advances the simulation by one iteration.
type tickMsg time.Time

// watchModel is the bubbletea model driving the live view. Each animation
// frame performs exactly one pack pass, so the terminal shows the same
// relaxation trajectory a headless run would take.
type watchModel struct {
	packer    *pack.Packer
	algorithm pack.Algorithm
	damping   float64
	decay     float64
	tolerance float64

	budget    int
	iteration int
	converged bool
	commit    bool

	interval time.Duration
	start    time.Time
	width    int
	height   int
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			if m.done() {
				m.commit = true
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.done() {
			return m, nil
		}
		collided := m.packer.Pack(m.algorithm, m.damping, m.tolerance)
		m.damping *= m.decay
		m.iteration++
		if !collided {
			m.converged = true
		}
		if m.done() {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

// done reports whether the simulation has finished.
func (m watchModel) done() bool {
	return m.converged || m.iteration >= m.budget
}

var watchCircleStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("circlepack watch"))
	b.WriteString("\n")
	help := "q quit"
	if m.done() {
		help = "c commit  q quit"
	}
	b.WriteString(StyleDim.Render(help))
	b.WriteString("\n\n")

	b.WriteString(m.viewport())
	b.WriteString("\n")

	status := styleRunning.Render(iconRunning)
	if m.converged {
		status = styleConverged.Render(iconConverged)
	} else if m.done() {
		status = StyleWarning.Render("budget exhausted")
	}
	b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
		StyleDim.Render(fmt.Sprintf("iteration %d/%d", m.iteration, m.budget)),
		StyleDim.Render("·"),
		StyleDim.Render(fmt.Sprintf("damping %.4f", m.damping)),
		status))

	return b.String()
}

// viewport projects the arrangement onto a character grid. Cells are about
// twice as tall as wide, so the vertical scale is halved to keep circles
// round on screen.
func (m watchModel) viewport() string {
	cols, rows := m.width-4, m.height-7
	if cols < 20 {
		cols = 60
	}
	if rows < 10 {
		rows = 20
	}

	bounds := m.packer.Bounds()
	margin := 1.0
	sceneW := bounds.Width() + 2*margin
	sceneH := bounds.Height() + 2*margin
	if sceneW <= 0 || sceneH <= 0 {
		return ""
	}
	scale := min(float64(cols)/sceneW, float64(rows)*2/sceneH)
	center := bounds.Center()

	circles := m.packer.Circles()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			// Invert the cell mapping to find the scene point under
			// this cell.
			x := center.X + (float64(col)-float64(cols)/2)/scale
			y := center.Y + (float64(row)-float64(rows)/2)*2/scale

			drawn := false
			for i, c := range circles {
				if geom.Pt(x, y).DistanceSquared(c.Center) <= c.Radius*c.Radius {
					b.WriteString(watchCircleStyles[i%len(watchCircleStyles)].Render("●"))
					drawn = true
					break
				}
			}
			if !drawn {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

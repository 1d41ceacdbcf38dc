package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sink"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/records"
)

// defaultFPS is the terminal redraw rate while the chart animates.
const defaultFPS = 30

// View styles
var (
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var measure, sortName string
	fps := defaultFPS

	cmd := &cobra.Command{
		Use:   "view [file.csv]",
		Short: "Explore a CSV file as a live bar chart in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "fps must be positive, got %d", fps)
			}
			return c.runView(cmd.Context(), args[0], measure, sortName, fps)
		},
	}

	cmd.Flags().StringVarP(&measure, "measure", "m", "", "initial measure column")
	cmd.Flags().StringVarP(&sortName, "sort", "s", "", "initial sort: "+strings.Join(sorting.Names(), ", "))
	cmd.Flags().IntVar(&fps, "fps", fps, "redraw rate")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path, measure, sortName string, fps int) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	t, err := c.loadTable(ctx, cfg.Cache, path)
	if err != nil {
		return err
	}
	if measure == "" {
		measure = cfg.Chart.Measure
	}
	sorter := cfg.Chart.sorter()
	if sortName != "" {
		if sorter, err = sorting.ByName(sortName); err != nil {
			return err
		}
	}

	eng := chart.New(cfg.Chart.options()...)
	if err := eng.Mount(t.Records, t.Config(pickMeasure(t, measure), sorter)); err != nil {
		return err
	}
	defer eng.Unmount()

	reload := func() tea.Msg {
		t, err := c.loadTable(ctx, cfg.Cache, path)
		return reloadMsg{table: t, err: err}
	}
	m := newChartModel(eng, t, reload, time.Second/time.Duration(fps))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// chartModel - Live chart view
// =============================================================================

type frameMsg time.Time

type reloadMsg struct {
	table records.Table
	err   error
}

// chartModel is the bubbletea model for the live chart. Each key press
// feeds a new config to the engine; frame ticks only take snapshots.
type chartModel struct {
	eng    *chart.Engine
	table  records.Table
	reload tea.Cmd
	every  time.Duration

	hover   int // index into the current domain, -1 for none
	columns int
	err     error
}

func newChartModel(eng *chart.Engine, t records.Table, reload tea.Cmd, every time.Duration) chartModel {
	return chartModel{
		eng:     eng,
		table:   t,
		reload:  reload,
		every:   every,
		hover:   -1,
		columns: 40,
	}
}

func (m chartModel) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m chartModel) Init() tea.Cmd {
	return m.tick()
}

func (m chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m, m.tick()
	case reloadMsg:
		m.applyReload(msg)
	case tea.WindowSizeMsg:
		m.columns = max(msg.Width-30, 10)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			m.err = m.eng.UpdateMeasure(m.nextMeasure())
		case "s":
			m.err = m.eng.UpdateSort(sorting.Next(m.eng.Config().Sort))
		case "r":
			return m, m.reload
		case "left", "h":
			m.moveHover(-1)
		case "right", "l":
			m.moveHover(1)
		case "backspace", "x":
			m.hover = -1
			m.eng.PointerLeave()
		}
	}
	return m, nil
}

// nextMeasure returns the measure after the active one, wrapping around.
func (m chartModel) nextMeasure() string {
	ms := m.table.Measures()
	if len(ms) == 0 {
		return m.eng.Config().MeasureKey
	}
	i := slices.Index(ms, m.eng.Config().MeasureKey)
	return ms[(i+1)%len(ms)]
}

// moveHover steps the pointer across bars in on-screen order and enters
// the bar it lands on.
func (m *chartModel) moveHover(step int) {
	domain := m.eng.Domain()
	if len(domain) == 0 {
		return
	}
	switch {
	case m.hover < 0 && step < 0:
		m.hover = len(domain) - 1
	case m.hover < 0:
		m.hover = 0
	default:
		m.hover = (m.hover + step + len(domain)) % len(domain)
	}
	key := domain[m.hover]
	for _, b := range m.eng.Frame().Bars {
		if b.Key == key {
			m.err = m.eng.PointerEnter(key, b.X+b.Width/2, b.Y)
			return
		}
	}
}

// applyReload swaps in a freshly loaded table, keeping the active measure
// when the new table still has it.
func (m *chartModel) applyReload(msg reloadMsg) {
	if msg.err != nil {
		m.err = msg.err
		return
	}
	cfg := m.eng.Config()
	cfg.CategoryKey = msg.table.CategoryKey
	cfg.MeasureKey = pickMeasure(msg.table, cfg.MeasureKey)
	if m.err = m.eng.Update(msg.table.Records, cfg); m.err == nil {
		m.table = msg.table
	}
}

func (m chartModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("\n\n")
	b.WriteString(sink.RenderText(m.eng.Frame(), sink.WithColumns(m.columns)))
	b.WriteString("\n")

	cfg := m.eng.Config()
	sortName := "input"
	if cfg.Sort != nil {
		sortName = cfg.Sort.Name()
	}
	b.WriteString(viewStatusStyle.Render(fmt.Sprintf("%s · measure %s · sort %s", m.eng.State(), cfg.MeasureKey, sortName)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(viewErrorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(viewHelpStyle.Render("m measure  s sort  ←/→ hover  x clear  r reload  q quit"))
	b.WriteString("\n")

	return b.String()
}

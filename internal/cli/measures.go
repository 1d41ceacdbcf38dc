package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/records"
)

// measuresCommand lists the columns a CSV file aggregates to.
func (c *CLI) measuresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "measures [file.csv]",
		Short: "List the measures a CSV file can be charted by",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			t, err := c.loadTable(ctx, cfg.Cache, args[0])
			if err != nil {
				return err
			}
			printMeasures(os.Stdout, t)
			return nil
		},
	}
}

// printMeasures writes one row per measure with its kind and total.
func printMeasures(w io.Writer, t records.Table) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d categories by %s", len(t.Records), t.CategoryKey)))

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(t.Columns))
	for _, m := range t.Measures() {
		kind, total := "text", "—"
		if t.Numeric[m] {
			kind = "number"
			total = strconv.FormatFloat(sum(t.Records, m), 'f', -1, 64)
		}
		rows = append(rows, []string{m, kind, total})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Measure", "Kind", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(rows) && rows[row][1] != "number" {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 2 {
				return StyleNumber
			}
			return StyleValue
		})
	fmt.Fprintln(w, tbl.Render())
}

func sum(rs []chart.Record, key string) float64 {
	var total float64
	for _, r := range rs {
		if v, err := r.Measure(key); err == nil {
			total += v
		}
	}
	return total
}

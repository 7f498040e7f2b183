package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mverhagen/bpdoc/pkg/ledger"
)

// historyCommand creates the history command for listing recent exports.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := openLedger()
			if err != nil {
				return err
			}
			defer led.Close()

			entries, err := led.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No exports recorded yet")
				return nil
			}

			printHistory(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", ledger.DefaultRecentLimit, "number of entries to show")

	return cmd
}

// printHistory renders the entries as a table, newest first.
func printHistory(entries []ledger.Entry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.AssetPath,
			strings.Join(e.Formats, ","),
			fmt.Sprintf("%d files", len(e.OutputFiles)),
			e.ExportedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Asset", "Formats", "Output", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return StyleDim
		})

	fmt.Println(t.Render())
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/woodfordbl/maffei-design/pkg/content"
)

// collectionsCommand lists the collections in a content file.
func (c *CLI) collectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collections [content.yaml]",
		Short: "List collections and their portfolio images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			lib, err := loadLibrary(input, cfg)
			if err != nil {
				return fmt.Errorf("load content: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), collectionsTable(lib))
			return nil
		},
	}
}

// collectionsTable renders one row per collection: id, title, block count,
// image count and how many images are featured in the portfolio.
func collectionsTable(lib *content.Library) string {
	rows := make([][]string, 0, len(lib.Collections))
	for _, col := range lib.Collections {
		images := col.Images()
		featured := 0
		for _, img := range images {
			if img.ShowInPortfolio && img.PortfolioTitle != "" {
				featured++
			}
		}
		rows = append(rows, []string{
			col.ID,
			col.Title,
			strconv.Itoa(len(col.Blocks)),
			strconv.Itoa(len(images)),
			strconv.Itoa(featured),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Blocks", "Images", "Portfolio").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			case col >= 2:
				return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

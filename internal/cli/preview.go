package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/render/sink"
)

// One terminal cell stands for this many layout pixels.
const (
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [content.yaml]",
		Short: "Preview the portfolio gallery in the terminal",
		Long: `Preview the portfolio gallery in the terminal.

Each cell stands for 8x16 layout pixels. Resize the terminal to watch the
gallery repack; scroll with the arrow keys and quit with q.`,
		Args: cobra.MaximumNArgs(1),
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

			m := newPreviewModel(lib.Portfolio(c.Logger), cfg.Gallery.Gap)
			defer m.close()
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// previewModel - Resize-driven gallery view
// =============================================================================

// previewModel feeds terminal widths into a gallery controller through a
// signal and draws the published layout as coloured blocks.
type previewModel struct {
	items  []gallery.Item
	signal *gallery.Signal
	ctrl   *gallery.Controller

	width  int
	height int
	offset int
}

func newPreviewModel(items []gallery.Item, gap float64) previewModel {
	signal := gallery.NewSignal(0)
	ctrl := gallery.NewController(items, gallery.WithGap(gap))
	ctrl.Attach(signal)
	return previewModel{items: items, signal: signal, ctrl: ctrl}
}

func (m previewModel) close() {
	m.ctrl.Detach()
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.signal.Set(float64(msg.Width) * cellWidthPx)
		m.offset = m.clampOffset(m.offset)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.offset = m.clampOffset(m.offset - 1)
		case "down", "j":
			m.offset = m.clampOffset(m.offset + 1)
		case "pgup":
			m.offset = m.clampOffset(m.offset - m.viewLines())
		case "pgdown", " ":
			m.offset = m.clampOffset(m.offset + m.viewLines())
		}
	}
	return m, nil
}

// viewLines is the number of canvas lines that fit between header and footer.
func (m previewModel) viewLines() int {
	return max(m.height-3, 1)
}

func (m previewModel) clampOffset(off int) int {
	total := int(math.Ceil(m.ctrl.ContainerHeight() / cellHeightPx))
	return max(0, min(off, total-m.viewLines()))
}

func (m previewModel) View() string {
	if m.width == 0 {
		return StyleDim.Render("Measuring terminal...")
	}
	l := m.ctrl.Layout()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Gallery"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %.0fpx · %d items · %d rows · %.0fpx tall", l.Width, len(l.Items), len(l.Rows()), l.Height)))
	b.WriteString("\n")

	lines := renderCanvas(l, m.items, m.width)
	end := min(m.offset+m.viewLines(), len(lines))
	for _, line := range lines[min(m.offset, end):end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render("resize to repack  ↑/↓ scroll  q quit"))
	return b.String()
}

// renderCanvas draws l as cols-wide lines, one block per tile filled with its
// collection's colour and labelled with its title.
func renderCanvas(l gallery.Layout, items []gallery.Item, cols int) []string {
	rows := int(math.Ceil(l.Height / cellHeightPx))
	if rows == 0 || cols <= 0 {
		return nil
	}

	owner := make([][]int, rows)
	text := make([][]rune, rows)
	for y := range owner {
		owner[y] = make([]int, cols)
		text[y] = []rune(strings.Repeat(" ", cols))
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	tiles := sink.Tiles(l, items)
	colour := make([]int, len(tiles))
	seen := make(map[string]int)
	for i, t := range tiles {
		idx, ok := seen[t.CollectionSlug]
		if !ok {
			idx = len(seen)
			seen[t.CollectionSlug] = idx
		}
		colour[i] = idx % len(tilePalette)

		x0, x1 := cellSpan(t.X, t.Width, cellWidthPx, cols)
		y0, y1 := cellSpan(t.Y, t.Height, cellHeightPx, rows)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				owner[y][x] = i
			}
		}
		label := []rune(t.Title)
		if room := x1 - x0 - 2; room > 0 && y0 < y1 {
			if len(label) > room {
				label = label[:room]
			}
			copy(text[y0][x0+1:], label)
		}
	}

	lines := make([]string, rows)
	for y := range owner {
		var b strings.Builder
		for x := 0; x < cols; {
			end := x
			for end < cols && owner[y][end] == owner[y][x] {
				end++
			}
			run := string(text[y][x:end])
			if i := owner[y][x]; i >= 0 {
				run = lipgloss.NewStyle().
					Background(tilePalette[colour[i]]).
					Foreground(lipgloss.Color("235")).
					Render(run)
			}
			b.WriteString(run)
			x = end
		}
		lines[y] = b.String()
	}
	return lines
}

// cellSpan converts a pixel interval to a half-open cell range within
// [0, limit), at least one cell wide.
func cellSpan(start, size, cellPx float64, limit int) (int, int) {
	a := int(math.Round(start / cellPx))
	b := int(math.Round((start + size) / cellPx))
	if b <= a {
		b = a + 1
	}
	return max(0, min(a, limit)), max(0, min(b, limit))
}

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/poster"
)

// templatesCommand lists the poster templates.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the poster templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(templatesTable(poster.Templates()))
			printNextStep("Render one with", "posterkit render <template>")
			return nil
		},
	}
}

func templatesTable(templates []poster.Template) string {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		w, h := t.Size()
		page := t.Page()
		rows = append(rows, []string{
			t.Name(),
			t.Title(),
			fmt.Sprintf("%d×%d", w, h),
			fmt.Sprintf("%g×%gin", page.Width/72, page.Height/72),
			t.Description(),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Title", "Pixels", "Page", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return StyleHeader
			case col == 0:
				return StyleHighlight
			case col == 4:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

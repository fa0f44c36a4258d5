package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive content editor",
		Long: `Open the content tree in an interactive terminal editor.

Navigate with the arrow keys, press enter to edit a value, 'a' to add a key
or list element, 'd' to delete, and 's' to save and quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			svc, err := c.newService(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close(ctx)

			doc, err := svc.Content(ctx)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewEditorModel(doc), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}

			model, ok := final.(EditorModel)
			if !ok || !model.Save {
				printInfo("No changes saved")
				return nil
			}

			if err := svc.ReplaceContent(ctx, model.Tree()); err != nil {
				return err
			}
			printSuccess("Content saved")
			return nil
		},
	}
}

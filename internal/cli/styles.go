package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skovert/folio/pkg/styles"
)

// stylesCommand creates the styles command with subcommands.
func (c *CLI) stylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Manage the site theme",
	}

	cmd.AddCommand(c.stylesListCommand())
	cmd.AddCommand(c.stylesSetCommand())
	cmd.AddCommand(c.stylesCSSCommand())

	return cmd
}

func (c *CLI) stylesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the current style settings",
		Args:  cobra.NoArgs,
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

			settings, err := svc.Styles(ctx)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Println(StyleTitle.Render("Style Settings"))
			for _, k := range keys {
				printKeyValue(k, settings[k])
			}
			return nil
		},
	}
}

func (c *CLI) stylesSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a style setting",
		Long: `Set a style setting. Keys ending in -color must be hex colors:

  folio styles set accent-color "#e94560"
  folio styles set heading-font "Inter, sans-serif"`,
		Args: cobra.ExactArgs(2),
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

			if err := svc.SaveStyles(ctx, styles.Settings{args[0]: args[1]}); err != nil {
				return err
			}
			printSuccess("Set %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) stylesCSSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the rendered stylesheet",
		Args:  cobra.NoArgs,
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

			css, err := svc.CSS(ctx)
			if err != nil {
				return err
			}
			fmt.Print(css)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// socialCommand creates the social command with subcommands.
func (c *CLI) socialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Manage social links",
	}

	cmd.AddCommand(c.socialListCommand())
	cmd.AddCommand(c.socialAddCommand())
	cmd.AddCommand(c.socialRemoveCommand())
	cmd.AddCommand(c.socialReorderCommand())

	return cmd
}

func (c *CLI) socialListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all social links in display order",
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

			links, err := svc.SocialLinks(ctx)
			if err != nil {
				return err
			}
			if len(links) == 0 {
				printInfo("No social links configured")
				return nil
			}

			fmt.Println(StyleTitle.Render("Social Links"))
			for _, l := range links {
				fmt.Printf("  %s %s %s\n",
					StyleDim.Render(fmt.Sprintf("%d.", l.Order+1)),
					StyleValue.Render(l.Label),
					StyleDim.Render(l.URL))
				printDetail("id: %s", l.ID)
			}
			return nil
		},
	}
}

func (c *CLI) socialAddCommand() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <label> <url>",
		Short: "Add a social link",
		Args:  cobra.ExactArgs(2),
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

			link, err := svc.AddSocialLink(ctx, args[0], args[1], icon)
			if err != nil {
				return err
			}
			printSuccess("Added %s", StyleHighlight.Render(link.Label))
			printDetail("id: %s", link.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "icon identifier shown next to the link")
	return cmd
}

func (c *CLI) socialRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a social link by ID",
		Args:  cobra.ExactArgs(1),
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

			if err := svc.RemoveSocialLink(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Removed link")
			return nil
		},
	}
}

func (c *CLI) socialReorderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder social links",
		Long:  `Reorder social links. Every link's ID must be listed exactly once, in the desired display order.`,
		Args:  cobra.MinimumNArgs(1),
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

			if err := svc.ReorderSocialLinks(ctx, args); err != nil {
				return err
			}
			printSuccess("Reordered %d links", len(args))
			return nil
		},
	}
}

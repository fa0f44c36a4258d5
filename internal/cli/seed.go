package cli

import (
	"github.com/spf13/cobra"
)

// seedCommand creates the seed command.
func (c *CLI) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the default documents into an empty store",
		Long: `Write the default content and styles documents into the configured store.

Documents that already exist are left untouched, so seeding a populated
store is a no-op.`,
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

			sp := newSpinner(ctx, "Seeding documents...")
			sp.start()
			if err := svc.Seed(ctx); err != nil {
				sp.stopWithError("Seeding failed")
				return err
			}
			sp.stop()

			printSuccess("Store seeded")
			printDetail("backend: %s", cfg.Store.Backend)
			return nil
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

// contentCommand creates the content command with subcommands.
func (c *CLI) contentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and write site content",
		Long: `Read and write values in the content tree by dotted path.

Paths address nested values: "hero.title" is the title key of the hero
mapping, "services.0" is the first entry of the services list.`,
	}

	cmd.AddCommand(c.contentGetCommand())
	cmd.AddCommand(c.contentSetCommand())
	cmd.AddCommand(c.contentDeleteCommand())
	cmd.AddCommand(c.contentExportCommand())
	cmd.AddCommand(c.contentImportCommand())
	cmd.AddCommand(c.contentWatchCommand())

	return cmd
}

func (c *CLI) contentGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [path]",
		Short: "Print the content tree or a value at a path",
		Args:  cobra.MaximumNArgs(1),
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

			var node content.Node
			if len(args) == 1 {
				node, err = svc.GetValue(ctx, args[0])
			} else {
				node, err = svc.Content(ctx)
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(node, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func (c *CLI) contentSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a value at a path",
		Long: `Set a value at a dotted path, creating intermediate containers as needed.

The value is parsed as JSON when possible, so objects and lists can be
written directly; anything else is stored as a string:

  folio content set hero.title "Hello there"
  folio content set projects.portfolio.tags '["go", "design"]'`,
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

			if err := svc.SetValue(ctx, args[0], parseValueArg(args[1])); err != nil {
				return err
			}
			printSuccess("Set %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) contentDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete the value at a path",
		Long: `Delete the value at a dotted path.

Deleting a list element splices it out; later elements shift down.`,
		Args: cobra.ExactArgs(1),
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

			if err := svc.DeleteValue(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func (c *CLI) contentExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the content tree to a JSON or YAML file",
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

			p := newProgress(c.Logger)
			doc, err := svc.Content(ctx)
			if err != nil {
				return err
			}

			data, err := encodeDoc(doc, formatFor(args[0], format))
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			p.done(fmt.Sprintf("Exported content to %s", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default from file extension)")
	return cmd
}

func (c *CLI) contentImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON or YAML content file",
		Long: `Import a content document from a file.

By default the imported document is merged into the stored content. With
--replace the stored document is overwritten wholesale.`,
		Args: cobra.ExactArgs(1),
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

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := decodeDoc(data, formatFor(args[0], ""))
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			if replace {
				err = svc.ReplaceContent(ctx, doc)
			} else {
				err = svc.MergeContent(ctx, doc)
			}
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Imported content from %s", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored document instead of merging")
	return cmd
}

func (c *CLI) contentWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream content changes as they happen",
		Long: `Subscribe to the content document and print the full tree after each
change, as JSON, until interrupted. Useful for following edits made from
another session or directly in the store.`,
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

			ch, err := svc.WatchContent(ctx)
			if err != nil {
				return err
			}
			printInfo("Watching content; press Ctrl+C to stop")

			for doc := range ch {
				out, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}
			return nil
		},
	}
}

// parseValueArg interprets a command-line value literal. Valid JSON becomes
// the corresponding tree; everything else is a plain string.
func parseValueArg(s string) content.Node {
	var node content.Node
	if err := json.Unmarshal([]byte(s), &node); err == nil {
		return node
	}
	return content.String(s)
}

// formatFor picks the encoding format from an explicit flag or the file
// extension, defaulting to JSON.
func formatFor(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "yaml"
	default:
		return "json"
	}
}

func encodeDoc(doc content.Node, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(doc.Value())
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", format)
	}
}

func decodeDoc(data []byte, format string) (content.Node, error) {
	switch format {
	case "yaml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return content.Node{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "parse yaml")
		}
		return content.FromValue(v)
	case "json":
		var node content.Node
		if err := json.Unmarshal(data, &node); err != nil {
			return content.Node{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "parse json")
		}
		return node, nil
	default:
		return content.Node{}, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", format)
	}
}

// Package cli implements the folio command-line interface.
//
// This package provides commands for running the HTTP server, editing the
// site content from the terminal, managing styles and social links, and
// seeding a fresh installation. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the public API and admin HTTP server
//   - edit: Open the interactive content editor
//   - content: Read and write content values from the shell
//   - styles: Manage the site theme
//   - social: Manage social links
//   - seed: Write the default documents into an empty store
//   - auth: Generate admin password hashes
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skovert/folio/internal/config"
	"github.com/skovert/folio/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "folio"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config location (--config).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Folio is a headless CMS for a personal portfolio site",
		Long:         `Folio serves a personal portfolio site's content, theme and social links over a small JSON API, with a session-protected admin surface and an interactive terminal editor.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/folio/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.contentCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.socialCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves and loads the configuration file.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	c.Logger.Debug("loading config", "path", path)
	return config.Load(path)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/folio/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/skovert/folio/internal/server"
	"github.com/skovert/folio/pkg/auth"
	"github.com/skovert/folio/pkg/mailer"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the folio HTTP server",
		Long: `Run the public API and admin HTTP server.

The server reads its backends from the config file. Without an [auth] section
the admin API is disabled and only the public read endpoints are served.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			svc, err := c.newService(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close(ctx)

			opts := server.Options{
				Service:       svc,
				SessionTTL:    cfg.Sessions.TTL.Duration,
				Recipient:     cfg.Contact.Recipient,
				SecureCookies: strings.HasPrefix(cfg.Server.BaseURL, "https://"),
				Logger:        c.Logger,
				Limiter:       c.newLimiter(cfg),
			}

			if cfg.AdminEnabled() {
				authn, err := auth.New(cfg.Auth.Email, cfg.Auth.PasswordHash)
				if err != nil {
					return err
				}
				sessions, err := c.newSessionStore(ctx, cfg)
				if err != nil {
					return err
				}
				opts.Auth = authn
				opts.Sessions = sessions
			} else {
				c.Logger.Warn("no admin account configured, admin API disabled")
			}

			if cfg.MailEnabled() {
				m, err := mailer.NewSMTP(mailer.SMTPConfig{
					Host:     cfg.SMTP.Host,
					Port:     cfg.SMTP.Port,
					Username: cfg.SMTP.Username,
					Password: cfg.SMTP.Password,
					From:     cfg.SMTP.From,
					To:       cfg.Contact.Recipient,
				}, c.Logger)
				if err != nil {
					return err
				}
				opts.Mailer = m
			} else {
				c.Logger.Warn("mail delivery not configured, contact messages are logged only")
			}

			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

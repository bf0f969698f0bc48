package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yzchen14/GUITest/config"
	"github.com/yzchen14/GUITest/gateway"
	"github.com/yzchen14/GUITest/launcher"
	"github.com/yzchen14/GUITest/pkg/logging"
	"github.com/yzchen14/GUITest/pkg/views"
	"github.com/yzchen14/GUITest/view"
)

type rootOptions struct {
	envFile    string
	logLevel   string
	gatewayURL string

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "guitest",
		Short:         "Greeting page backed by a small notes API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if opts.gatewayURL != "" {
				cfg.Gateway.URL = opts.gatewayURL
			}

			opts.cfg = cfg
			opts.log = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if !cfg.EnvFileLoaded {
				opts.log.Debug().Msg("💡 Using platform environment variables (no .env file)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&opts.gatewayURL, "gateway", "", "gateway base URL (overrides GATEWAY_URL)")

	root.AddCommand(
		serveCmd(opts, false),
		serveCmd(opts, true),
		helloCmd(opts),
		sendCmd(opts),
		notesCmd(opts),
	)
	return root
}

// serve runs the server; open additionally shows the page in a browser.
func serveCmd(opts *rootOptions, open bool) *cobra.Command {
	use, short := "serve", "Serve the API and the page until interrupted"
	if open {
		use, short = "open", "Serve and open the page in a browser window"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts.log.Info().Msg("🚀 Starting server initialization...")
			s, err := setupServices(ctx, opts.cfg, opts.log)
			if err != nil {
				opts.log.Error().Err(err).Msg("❌ Startup failed")
				return err
			}
			defer s.Close()

			lopts := launcher.Options{
				Server: s.Server,
				URL:    opts.cfg.Server.URL(),
				Ready:  helloReady(gateway.NewClient(opts.cfg.Server.URL(), opts.cfg.Gateway.Timeout)),
				Log:    logging.Component(opts.log, "launcher"),
			}
			if open {
				lopts.Opener = launcher.BrowserOpener{}
			}

			if err := launcher.Run(ctx, lopts); err != nil {
				opts.log.Error().Err(err).Msg("❌ Server stopped")
				return err
			}
			opts.log.Info().Msg("👋 Bye")
			return nil
		},
	}
}

func helloReady(c *gateway.Client) launcher.ReadyFunc {
	return func(ctx context.Context) error {
		_, err := c.Hello(ctx)
		return err
	}
}

func helloCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "Fetch and print the greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newHeadlessView(opts)
			v.Mount(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), v.Snapshot().Message)
			return nil
		},
	}
}

func sendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Submit text to the data endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newHeadlessView(opts)
			v.UpdateDraft(args[0])

			out := cmd.OutOrStdout()
			// Failures are logged by the view; the command still succeeds.
			_ = v.Submit(cmd.Context(), view.NotifierFunc(func(msg string) {
				fmt.Fprintln(out, msg)
			}))
			return nil
		},
	}
}

func notesCmd(opts *rootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List recently received payloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &Services{}
			defer s.Close()
			if err := setupStore(cmd.Context(), opts.cfg, opts.log, s); err != nil {
				return err
			}

			params := views.PageParams{Page: max(page, 1), PageSize: pageSize}
			if params.PageSize < 1 || params.PageSize > views.MaxPageSize {
				params.PageSize = views.DefaultPageSize
			}
			notes, err := s.Store.RecentNotes(cmd.Context(), params.PageSize, params.Offset())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, n := range views.ToNoteViews(notes) {
				fmt.Fprintf(out, "%s  %s  %s\n", n.CreatedAt, n.ID, n.Payload)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", views.DefaultPageSize, "notes per page")
	return cmd
}

func newHeadlessView(opts *rootOptions) *view.View {
	client := gateway.NewClient(opts.cfg.Gateway.URL, opts.cfg.Gateway.Timeout)
	return view.New(client, logging.Component(opts.log, "view"))
}

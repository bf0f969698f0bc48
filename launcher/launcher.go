// Package launcher runs the server and opens the UI once it is ready.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultStartupTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 3 * time.Second

	readyPollInterval = 100 * time.Millisecond
)

// Opener shows url to the user.
type Opener interface {
	Open(url string) error
}

// ReadyFunc reports whether the server answers yet.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	Server   *http.Server
	Listener net.Listener
	URL      string

	// Ready is polled until it succeeds or StartupTimeout passes.
	Ready          ReadyFunc
	StartupTimeout time.Duration

	// Opener is optional; without it the launcher only serves.
	Opener          Opener
	ShutdownTimeout time.Duration

	Log zerolog.Logger
}

// Run serves until ctx is done, opening the UI after the server is ready.
// The server is always shut down before Run returns.
func Run(ctx context.Context, opts Options) error {
	if opts.StartupTimeout <= 0 {
		opts.StartupTimeout = DefaultStartupTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", opts.Server.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", opts.Server.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts.Log.Info().Str("addr", ln.Addr().String()).Msg("🌐 Server starting")
		if err := opts.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		opts.Log.Info().Msg("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		if err := opts.Server.Shutdown(shutdownCtx); err != nil {
			opts.Server.Close()
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if opts.Ready != nil {
			if err := waitReady(gctx, opts.Ready, opts.StartupTimeout); err != nil {
				return err
			}
		}
		opts.Log.Info().Msg("✅ Server ready")

		if opts.Opener == nil {
			return nil
		}
		opts.Log.Info().Str("url", opts.URL).Msg("🪟 Opening window...")
		if err := opts.Opener.Open(opts.URL); err != nil {
			return fmt.Errorf("open %s: %w", opts.URL, err)
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitReady(ctx context.Context, ready ReadyFunc, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = ready(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("server not ready after %s: %w", timeout, lastErr)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mitchellh/cli"
	"golang.org/x/sync/errgroup"

	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/config"
	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/brettbedarf/editorfs/requests"
	"github.com/brettbedarf/editorfs/server"
	"github.com/brettbedarf/editorfs/session"
)

const shutdownTimeout = 30 * time.Second

type ServeCommand struct {
	Ui cli.Ui

	commonFlags
	addr         string
	manifestPath string
}

func (c *ServeCommand) flags() *flag.FlagSet {
	fs := defaultFlagSet("serve")
	c.register(fs)
	fs.StringVar(&c.addr, "addr", "", "address to listen on; overrides the config file")
	fs.StringVar(&c.manifestPath, "manifest", "", "workspace manifest to seed an initial session with")
	fs.Usage = func() { c.Ui.Error(c.Help()) }
	return fs
}

func (c *ServeCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return 1
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to load config: %s", err))
		return 1
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	logger := util.GetLogger("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := adapters.NewRegistry()
	adapters.RegisterBuiltins(r, cfg)
	sessions := session.NewManager(cfg.MaxSessions)

	if c.manifestPath != "" {
		s, err := c.seedSession(ctx, cfg, sessions, r)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Failed to seed session from %s: %s", c.manifestPath, err))
			return 1
		}
		c.Ui.Output(fmt.Sprintf("Seeded session %s from %s", s.ID, c.manifestPath))
	}

	e := server.SetupRouter(server.NewHandler(cfg, sessions, r), cfg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("Starting HTTP server")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		c.Ui.Error(fmt.Sprintf("Server failed: %s", err))
		return 1
	}
	logger.Info().Msg("Server exited cleanly")
	return 0
}

func (c *ServeCommand) seedSession(ctx context.Context, cfg *config.Config, sessions *session.Manager, r *adapters.Registry) (*session.Session, error) {
	m, err := requests.LoadManifest(c.manifestPath, r)
	if err != nil {
		return nil, err
	}
	m.MaxContentSize = cfg.MaxContentSize
	s, err := sessions.Create()
	if err != nil {
		return nil, err
	}
	if _, err := m.Apply(ctx, s.Tree); err != nil {
		return nil, errors.Join(err, sessions.Close(s.ID))
	}
	return s, nil
}

func (c *ServeCommand) Help() string {
	helpText := `
Usage: editorfs serve [options]

` + c.Synopsis() + "\n\n" + helpForFlags(c.flags())

	return strings.TrimSpace(helpText)
}

func (c *ServeCommand) Synopsis() string {
	return "Starts the session HTTP API"
}

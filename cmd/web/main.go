package main

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/hanko-community/internal/config"
	"finitefield.org/hanko-community/internal/i18n"
	"finitefield.org/hanko-community/internal/logging"
	"finitefield.org/hanko-community/internal/server"
	"finitefield.org/hanko-community/internal/site"
	"finitefield.org/hanko-community/internal/theme"
	"finitefield.org/hanko-community/locales"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("hanko-web: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hanko-web",
		Short:         "Serve the Hanko Community site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "path to hanko-web.yaml")
	pf.String("addr", "", "HTTP listen address (default :$HANKO_WEB_PORT, :$PORT or :8080)")
	pf.Bool("dev", false, "development logging")
	pf.String("site-config", "", "site.yaml with title, navbar and footer (default: embedded)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.Bool("h2c", false, "accept HTTP/2 cleartext")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "render [path]",
		Short: "Write the HTML of a route to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	})
	return root
}

type app struct {
	cfg config.Config
	log *zap.Logger
	srv *server.Server
}

func build(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return nil, err
	}
	siteCfg, err := site.Load(cfg.SiteConfig)
	if err != nil {
		return nil, err
	}
	bundle, err := i18n.LoadFS(locales.FS, cfg.DefaultLocale, cfg.Locales)
	if err != nil {
		return nil, fmt.Errorf("load i18n: %w", err)
	}
	th, err := theme.New(siteCfg, bundle)
	if err != nil {
		return nil, err
	}
	th.Analytics = theme.Analytics{
		GA4MeasurementID: cfg.GAMeasurementID,
		GTMContainerID:   cfg.GTMContainerID,
		Debug:            cfg.AnalyticsDebug,
	}
	srv, err := server.New(server.Config{
		Addr:            cfg.Addr,
		H2C:             cfg.H2C,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Theme:           th,
		Logger:          logger,
		SecureCookies:   cfg.IsProd(),
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: logger, srv: srv}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := build(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("starting",
		zap.String("addr", a.cfg.Addr),
		zap.Bool("dev", a.cfg.Dev),
		zap.String("env", a.cfg.Env),
		zap.Bool("h2c", a.cfg.H2C),
	)
	return a.srv.Run(ctx)
}

func runRender(cmd *cobra.Command, args []string) error {
	path := "/forum"
	if len(args) == 1 {
		path = args[0]
	}
	a, err := build(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(cmd.Context())
	rec := httptest.NewRecorder()
	a.srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("render %s: status %d", path, rec.Code)
	}
	_, err = cmd.OutOrStdout().Write(rec.Body.Bytes())
	return err
}

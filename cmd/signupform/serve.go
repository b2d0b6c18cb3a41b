package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signupform/internal/metrics"
	"github.com/goliatone/go-signupform/internal/server"
	"github.com/goliatone/go-signupform/pkg/openapi"
	"github.com/goliatone/go-signupform/pkg/orchestrator"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/renderers/html"
	"github.com/goliatone/go-signupform/pkg/renderers/tui"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the signup form as HTML at / and as a JSON API under /api, with /openapi.json and /metrics.`,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().Bool("persist-drafts", false, "Save posted values to the store")
	cmd.Flags().String("theme-variant", "", "Theme variant, e.g. dark")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	cfg := a.cfg
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("persist-drafts") {
		cfg.Server.PersistDrafts, _ = cmd.Flags().GetBool("persist-drafts")
	}
	if variant, _ := cmd.Flags().GetString("theme-variant"); variant != "" {
		cfg.Theme.Variant = variant
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cfg.Storage.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	page, err := html.New(html.WithTheme(html.DefaultManifest(), cfg.Theme.Variant))
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(page)
	registry.MustRegister(tui.New())

	orch := a.orchestrator(store, orchestrator.WithRegistry(registry))
	doc, err := openapi.New(ctx, a.def)
	if err != nil {
		return err
	}

	srv, err := server.New(orch, doc,
		server.WithLogger(a.logger),
		server.WithMetrics(metrics.New()),
		server.WithPersistDrafts(cfg.Server.PersistDrafts),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving signup form on %s\n", cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

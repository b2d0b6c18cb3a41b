package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/internal/config"
	"github.com/goliatone/go-signupform/internal/logging"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/orchestrator"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/storage"
	"github.com/goliatone/go-signupform/pkg/validation"
	"github.com/goliatone/go-signupform/pkg/visibility/expr"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "signupform",
		Short:         "Serve, fill and validate the signup form",
		Long:          `signupform renders a signup form as an HTML page or an interactive terminal session and validates submissions.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load (default .env)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (silent when empty)")
	root.PersistentFlags().String("form", "", "Form definition file replacing the built-in signup form")

	root.AddCommand(newServeCmd(), newFillCmd(), newValidateCmd(), newOpenAPICmd())
	return root
}

// app holds what every subcommand needs after flags and config are applied.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	def     model.FormModel
	schema  *validation.Schema
	catalog render.Catalog
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if formPath, _ := cmd.Flags().GetString("form"); formPath != "" {
		cfg.Form.Definition = formPath
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, def: signup.Form(), schema: signup.Schema()}
	if cfg.Form.Definition != "" {
		def, err := model.LoadFS(os.DirFS(filepath.Dir(cfg.Form.Definition)), filepath.Base(cfg.Form.Definition))
		if err != nil {
			return nil, fmt.Errorf("load form %s: %w", cfg.Form.Definition, err)
		}
		schema, err := validation.Compile(def, expr.New())
		if err != nil {
			return nil, fmt.Errorf("compile form %s: %w", cfg.Form.Definition, err)
		}
		a.def, a.schema = def, schema
	}
	if a.catalog, err = cfg.Form.LoadCatalog(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) orchestrator(store storage.Store, options ...orchestrator.Option) *orchestrator.Orchestrator {
	opts := []orchestrator.Option{
		orchestrator.WithDefinition(a.def, a.schema),
		orchestrator.WithStore(store),
		orchestrator.WithStorageKey(a.cfg.Storage.Key),
		orchestrator.WithLogger(a.logger),
	}
	if a.catalog != nil {
		opts = append(opts, orchestrator.WithTranslator(a.cfg.Form.Locale, a.catalog))
	}
	return orchestrator.New(append(opts, options...)...)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/orchestrator"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/renderers/tui"
	"github.com/goliatone/go-signupform/pkg/storage"
	"github.com/goliatone/go-signupform/pkg/storage/memory"
)

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively in the terminal",
		Long:  `Prompts for every visible field, re-asks the ones that fail validation, then prints the submitted form.`,
		RunE:  runFill,
	}
	cmd.Flags().Bool("save", false, "Store the submitted values (password excluded) for next time")
	cmd.Flags().Bool("no-store", false, "Start from empty values and never touch the store")
	cmd.Flags().Int("max-attempts", 0, "Give up after this many failed submits (0 keeps asking)")
	return cmd
}

func runFill(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var store storage.Store = memory.New()
	if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
		opened, closeStore, err := a.cfg.Storage.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()
		store = opened
	}

	orch := a.orchestrator(store, orchestrator.WithSubmitHandler(func(context.Context, model.Values) error {
		fmt.Fprintln(cmd.OutOrStdout(), form.Acknowledgement)
		return nil
	}))
	f, err := orch.NewForm(ctx)
	if err != nil {
		return err
	}

	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	session, err := tui.NewSession(f,
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithMaxAttempts(maxAttempts),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	values, err := session.Run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		cmd.PrintErrln("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	summary, err := orch.Render(ctx, f, "tui", render.RenderOptions{})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(summary))

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := orch.SaveDraft(ctx, values); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved answers to %q\n", a.cfg.Storage.Key)
	}
	return nil
}

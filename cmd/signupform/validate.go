package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/validation"
)

var errInvalid = errors.New("values are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a JSON object of form values",
		Long:  `Reads form values as a JSON object from file (or stdin when omitted or "-") and prints the validation result. Exits non-zero when invalid.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	var raw map[string]any
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}
	values := model.Merge(a.def.ZeroValues(), raw)

	_, verr := a.schema.Validate(values)
	result := validation.ResultOf(verr)

	out := struct {
		validation.Result
		Signup *signup.Signup `json:"signup,omitempty"`
	}{Result: result}
	if result.Valid && a.cfg.Form.Definition == "" {
		typed, err := signup.Decode(values)
		if err != nil {
			return err
		}
		out.Signup = &typed
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !result.Valid {
		return errInvalid
	}
	return nil
}

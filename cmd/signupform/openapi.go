package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signupform/pkg/openapi"
)

func newOpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			var opts []openapi.Option
			if server, _ := cmd.Flags().GetString("server"); server != "" {
				opts = append(opts, openapi.WithServer(server))
			}
			doc, err := openapi.New(cmd.Context(), a.def, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(doc.Raw()))
			return nil
		},
	}
	cmd.Flags().String("server", "", "Server URL to list in the document")
	return cmd
}

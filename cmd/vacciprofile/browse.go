package main

import (
	"github.com/spf13/cobra"

	"vacciprofile/internal/adapters/tui"
	"vacciprofile/internal/observability"
	"vacciprofile/internal/session"
)

func newBrowseCmd(c *cli) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, d, _, err := c.loadCatalog(cmd.Context(), observability.NopRecorder{})
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()
			s := session.New(cat, session.WithLogger(c.logger))
			return tui.Run(s, tui.Options{GlamourStyle: style})
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "glamour style for details (dark, light, notty); detected when empty")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every post in the content store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		catalog, err := a.svc.Reload(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range catalog.All() {
			a.logger.Debug("post ok", "slug", p.Slug, "key", p.Key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d posts in %s: ok\n", catalog.Len(), a.svc.Collection())
		return nil
	},
}

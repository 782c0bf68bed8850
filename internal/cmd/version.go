package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-colorname/internal/version"
)

func versionCmd() *cobra.Command {
	var versionJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionJSON {
				return printJSON(cmd.OutOrStdout(), version.GetInfo("colorname"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String("colorname"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
	return cmd
}

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; source builds report the VCS
// revision when one is embedded.
var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the smcextract version",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version
			if v == "dev" {
				if info, ok := debug.ReadBuildInfo(); ok {
					for _, setting := range info.Settings {
						if setting.Key == "vcs.revision" && len(setting.Value) >= 8 {
							v = "dev-" + setting.Value[:8]
							break
						}
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "smcextract %s\n", v)
			return nil
		},
	}
}

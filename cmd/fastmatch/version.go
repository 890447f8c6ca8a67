package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden at release time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Print the fastmatch version along with the toolchain and platform it
was built for. Development builds report the VCS revision when the binary
carries build info.`,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "fastmatch %s (%s, %s/%s)\n",
		buildVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// buildVersion resolves the version string: a release version when set by
// the linker, otherwise the VCS revision embedded by the Go toolchain.
func buildVersion() string {
	if version != "dev" {
		return "v" + version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 12 {
				return "dev+" + setting.Value[:12]
			}
		}
	}
	return version
}

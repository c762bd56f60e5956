package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/felixgeelhaar/perfboard/adapter/cli.Version=..." at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// CurrentBuild reports the linked build values. Binaries built without
// ldflags fall back to the VCS stamp the Go toolchain embeds.
func CurrentBuild() BuildInfo {
	info := BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.BuildDate == "unknown":
			info.BuildDate = s.Value
		}
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := CurrentBuild()
		out := cmd.OutOrStdout()
		if JSONOutput() {
			return PrintJSON(out, info)
		}
		fmt.Fprintf(out, "perfboard %s (%s)\n", info.Version, info.GoVersion)
		fmt.Fprintf(out, "  commit: %s\n  built:  %s\n", info.Commit, info.BuildDate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

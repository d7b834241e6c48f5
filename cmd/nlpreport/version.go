package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/nao1215/nlpreport/internal/config"
	"github.com/spf13/cobra"
)

// Set at build time via ldflags, for example
// -ldflags "-X main.version=v1.2.0 -X main.commit=3f2a9c1 -X main.date=2025-03-14".
var (
	version = ""
	commit  = ""
	date    = ""
)

// versionInfo describes the running binary.
type versionInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// currentVersion collects the version information, preferring ldflags over
// the module and VCS data embedded by the Go toolchain.
func currentVersion() versionInfo {
	info := versionInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.Date == "":
				info.Date = s.Value
			}
		}
	}

	if info.Version == "" {
		info.Version = "(devel)"
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// getVersion returns the program version recorded in reports and sent as
// the user agent.
func getVersion() string {
	return currentVersion().Version
}

// writeVersion prints info and the annotation defaults the binary was built with.
func writeVersion(out io.Writer, info versionInfo) {
	fmt.Fprintf(out, "%s %s\n", config.AppName, info.Version)
	fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  built:      %s\n", info.Date)
	fmt.Fprintf(out, "  go:         %s\n", info.GoVersion)
	fmt.Fprintf(out, "  server:     %s\n", config.DefaultServerURL)
	fmt.Fprintf(out, "  annotators: %s\n", strings.Join(config.DefaultAnnotators(), ","))
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the nlpreport version with its commit and build date, and the
default CoreNLP server and annotators a run uses when nothing is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return err
			}
			info := currentVersion()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return nil
			}
			writeVersion(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().Bool("short", false, "Print only the version number")

	return cmd
}

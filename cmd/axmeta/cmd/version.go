package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Long: `Print the axmeta release, the commit it was built from and the Go
toolchain and platform of the binary.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the release number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := currentBuild()
	w := cmd.OutOrStdout()
	switch {
	case versionShort:
		fmt.Fprintln(w, info.Version)
	case versionJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		fmt.Fprintf(w, "axmeta %s\n", info.Version)
		fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
		fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(w, "  platform: %s\n", info.Platform)
	}
	return nil
}

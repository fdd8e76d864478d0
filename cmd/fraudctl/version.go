package main

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Overridden at build time via -ldflags.
var (
	version   = "1.0.0"
	gitCommit = ""
	buildDate = ""
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show fraudctl build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format); err != nil {
				return err
			}

			payload := collectVersion()
			out := cmd.OutOrStdout()

			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			fmt.Fprintf(out, "fraudctl %s (%s)\n", payload.Version, payload.GoVersion)
			if payload.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", payload.GitCommit)
			}
			if payload.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", payload.BuildDate)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")

	return cmd
}

func collectVersion() versionPayload {
	payload := versionPayload{
		Tool:      "fraudctl",
		Version:   strings.TrimSpace(version),
		GitCommit: strings.TrimSpace(gitCommit),
		BuildDate: strings.TrimSpace(buildDate),
		GoVersion: "unknown",
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		payload.GoVersion = info.GoVersion
		if payload.GitCommit == "" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					payload.GitCommit = s.Value
				}
			}
		}
	}
	return payload
}

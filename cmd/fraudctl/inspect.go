package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fraud-screen/internal/catalog"
	"fraud-screen/internal/services"
)

type inspectPayload struct {
	Schema   services.SchemaInfo `json:"schema"`
	Catalogs map[string]int      `json:"catalogs"`
	Gaps     map[string][]string `json:"vocabulary_gaps"`
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the artifacts and summarize them",
		Long: `Loads the model, encoders and catalogs exactly as the server does, then prints
the schema, tree shape, catalog sizes and any catalog entries the encoders cannot encode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format); err != nil {
				return err
			}

			screening, err := opts.loadScreening(cmd)
			if err != nil {
				return err
			}

			payload := inspectPayload{
				Schema:   screening.SchemaInfo(),
				Catalogs: make(map[string]int, len(catalog.All)),
				Gaps:     screening.VocabularyGaps(),
			}
			for _, name := range catalog.All {
				payload.Catalogs[string(name)] = screening.Catalogs().List(name).Len()
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			renderInspectPretty(cmd.OutOrStdout(), payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")

	return cmd
}

func renderInspectPretty(out io.Writer, p inspectPayload) {
	bold := color.New(color.Bold)

	fmt.Fprintf(out, "%s %s (%d columns)\n", bold.Sprint("schema:     "), p.Schema.Name, len(p.Schema.Columns))
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("columns:    "), strings.Join(p.Schema.Columns, ", "))
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("categorical:"), strings.Join(p.Schema.Categorical, ", "))
	fmt.Fprintf(out, "%s %v\n", bold.Sprint("classes:    "), p.Schema.Classes)
	fmt.Fprintf(out, "%s depth %d, %d leaves\n", bold.Sprint("tree:       "), p.Schema.Depth, p.Schema.Leaves)

	sizes := make([]string, 0, len(catalog.All))
	for _, name := range catalog.All {
		sizes = append(sizes, fmt.Sprintf("%s %d", name, p.Catalogs[string(name)]))
	}
	fmt.Fprintf(out, "%s %s\n", bold.Sprint("catalogs:   "), strings.Join(sizes, ", "))

	if len(p.Gaps) == 0 {
		fmt.Fprintf(out, "%s %s\n", bold.Sprint("gaps:       "), legitColor.Sprint("none"))
		return
	}
	fmt.Fprintf(out, "%s\n", bold.Sprint("gaps:"))
	columns := make([]string, 0, len(p.Gaps))
	for col := range p.Gaps {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	for _, col := range columns {
		fmt.Fprintf(out, "  %s %s\n", warningColor.Sprint(col+":"), strings.Join(p.Gaps[col], ", "))
	}
}

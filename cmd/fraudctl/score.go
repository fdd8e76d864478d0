package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fraud-screen/internal/errors"
	"fraud-screen/internal/models"
)

var (
	fraudColor   = color.New(color.FgRed, color.Bold)
	legitColor   = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
)

type scoreResult struct {
	Index   int             `json:"index"`
	Verdict *models.Verdict `json:"verdict,omitempty"`
	Error   *scoreError     `json:"error,omitempty"`
}

type scoreError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func newScoreCmd(opts *globalOptions) *cobra.Command {
	var (
		recordPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one record or an array of records",
		Long: `Reads a JSON transaction record, or an array of them, from --record or stdin
and prints a verdict for each. Exits non-zero when any record is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := checkFormat(format); err != nil {
				return err
			}

			in, err := openInput(cmd, recordPath)
			if err != nil {
				return err
			}
			defer in.Close()

			records, err := readRecords(in)
			if err != nil {
				return err
			}

			screening, err := opts.loadScreening(cmd)
			if err != nil {
				return err
			}

			results := make([]scoreResult, 0, len(records))
			failed := 0
			for i, rec := range records {
				res := scoreResult{Index: i}
				v, err := screening.Score(cmd.Context(), rec)
				if err != nil {
					appErr := errors.FromError(err)
					res.Error = &scoreError{Code: string(appErr.Code), Message: appErr.Message, Field: appErr.Field}
					failed++
				} else {
					res.Verdict = &v
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				for _, res := range results {
					if err := enc.Encode(res); err != nil {
						return err
					}
				}
			} else {
				renderScorePretty(out, results, len(records) > 1)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d records rejected", failed, len(records))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&recordPath, "record", "r", "-", "JSON record file, - for stdin")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")

	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	return f, nil
}

// readRecords accepts a single JSON object or an array of objects.
func readRecords(r io.Reader) ([]models.TransactionRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no record given")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if data[0] == '[' {
		var records []models.TransactionRecord
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no record given")
		}
		return records, nil
	}

	var rec models.TransactionRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return []models.TransactionRecord{rec}, nil
}

func renderScorePretty(out io.Writer, results []scoreResult, numbered bool) {
	for _, res := range results {
		if numbered {
			fmt.Fprintf(out, "[%d] ", res.Index)
		}
		if res.Error != nil {
			fmt.Fprintf(out, "%s %s\n", warningColor.Sprint("rejected:"), res.Error.Message)
			continue
		}

		v := res.Verdict
		label := legitColor.Sprint("Legitimate")
		if v.Fraud {
			label = fraudColor.Sprint("Fraudulent")
		}
		fmt.Fprintf(out, "Transaction is %s with %s%% confidence.\n", label, v.ConfidenceText())
	}
}

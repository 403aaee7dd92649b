package command

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const JSONOutputFlag = "json"

// CommandResult is the formatted outcome of a CLI command
type CommandResult interface {
	GetOutput() string
}

// Outputter collects the command result and writes it in the
// requested format
type Outputter struct {
	isJSON bool
	result CommandResult
	err    error
}

// RegisterJSONOutputFlag adds the global --json flag
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(JSONOutputFlag, false, "get the command results in json format")
}

// InitializeOutputter creates an outputter honoring the --json flag
func InitializeOutputter(cmd *cobra.Command) *Outputter {
	isJSON, _ := cmd.Flags().GetBool(JSONOutputFlag)

	return &Outputter{isJSON: isJSON}
}

func (o *Outputter) SetError(err error) {
	o.err = err
}

func (o *Outputter) SetCommandResult(result CommandResult) {
	o.result = result
}

// WriteOutput prints the collected result, or the error, to the
// standard streams
func (o *Outputter) WriteOutput() {
	if o.err != nil {
		if o.isJSON {
			raw, marshalErr := json.Marshal(map[string]string{"error": o.err.Error()})
			if marshalErr == nil {
				fmt.Fprintln(os.Stderr, string(raw))

				return
			}
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", o.err)

		return
	}

	if o.result == nil {
		return
	}

	if o.isJSON {
		raw, err := json.MarshalIndent(o.result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)

			return
		}

		fmt.Fprintln(os.Stdout, string(raw))

		return
	}

	fmt.Fprintln(os.Stdout, o.result.GetOutput())
}

// FormatKV renders "key|value" rows into aligned columns
func FormatKV(rows []string) string {
	var buf strings.Builder

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	for _, row := range rows {
		fmt.Fprintln(w, strings.ReplaceAll(row, "|", "\t"))
	}

	_ = w.Flush()

	return buf.String()
}

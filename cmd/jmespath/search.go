package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ritamzico/jmespath"
)

// outputFormat is a pflag.Value so --output rejects anything but its two
// known modes at flag-parse time instead of at write time.
type outputFormat string

const (
	outputJSON    outputFormat = "json"
	outputCompact outputFormat = "compact"
)

func (f *outputFormat) String() string { return string(*f) }
func (f *outputFormat) Type() string   { return "outputFormat" }
func (f *outputFormat) Set(value string) error {
	switch outputFormat(value) {
	case outputJSON, outputCompact:
		*f = outputFormat(value)
		return nil
	default:
		return fmt.Errorf("must be %q or %q", outputJSON, outputCompact)
	}
}

var _ pflag.Value = (*outputFormat)(nil)

func newSearchCmd() *cobra.Command {
	var inputPath string
	format := outputJSON
	cmd := &cobra.Command{
		Use:   "search <expression>",
		Short: "Evaluate a JMESPath expression against a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(inputPath)
			if err != nil {
				return err
			}
			result, err := jmespath.Search(args[0], data)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result, format)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "path to a JSON file, or '-' for stdin")
	cmd.Flags().VarP(&format, "output", "o", "output format: json or compact")
	return cmd
}

func readInput(path string) (any, error) {
	var r io.Reader
	if path == "-" || path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var data any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding JSON input: %w", err)
	}
	return data, nil
}

func writeResult(w io.Writer, result any, format outputFormat) error {
	enc := json.NewEncoder(w)
	if format == outputJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ritamzico/jmespath"
)

func newReplCmd() *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read JMESPath expressions interactively and evaluate them against one JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(inputPath)
			if err != nil {
				return err
			}
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "path to a JSON file, or '-' for stdin")
	return cmd
}

// runRepl reads one expression per line until EOF, printing its result or
// error before prompting for the next: read a line, dispatch, print,
// repeat.
func runRepl(in io.Reader, out io.Writer, data any) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "jmespath> ")
	for scanner.Scan() {
		line := scanner.Text()
		switch line {
		case "":
			fmt.Fprint(out, "jmespath> ")
			continue
		case "quit", "exit":
			return nil
		}

		result, err := jmespath.Search(line, data)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		} else if err := writeResult(out, result, outputJSON); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		fmt.Fprint(out, "jmespath> ")
	}
	return scanner.Err()
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/prometools/pkg/cli"
	"mercator-hq/prometools/pkg/numfmt"
)

type formatResult struct {
	Input string       `json:"input" yaml:"input"`
	Kind  string       `json:"kind" yaml:"kind"`
	Value numfmt.Value `json:"value" yaml:"value"`
	Text  string       `json:"text" yaml:"text"`
}

// formatResults prints one canonical value per line in text mode.
type formatResults []formatResult

func (r formatResults) String() string {
	var sb strings.Builder
	for i, res := range r {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(res.Text)
	}
	return sb.String()
}

func newFormatCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "format VALUE...",
		Short: "Print the exposition text of sample values",
		Long: `Parse each argument as a sample value and print the text the renderer
writes for it. Integers keep integer form, floats use the shortest text that
reads back to the same bits, and NaN, +Inf and -Inf are spelled as tokens.

Examples:
  prometools format -- 42 0.1 -0.0
  prometools format --output json 1e3 +Inf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}

			results, err := formatValues(args)
			if err != nil {
				return cli.NewCommandError("format", err)
			}

			return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml")
	return cmd
}

func formatValues(args []string) (formatResults, error) {
	var buf numfmt.Buffer
	results := make(formatResults, 0, len(args))
	for _, arg := range args {
		v, err := numfmt.Parse(arg)
		if err != nil {
			return nil, err
		}
		results = append(results, formatResult{
			Input: arg,
			Kind:  v.Kind().String(),
			Value: v,
			Text:  string(buf.Format(v)),
		})
	}
	return results, nil
}

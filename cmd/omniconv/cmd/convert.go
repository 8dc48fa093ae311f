package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/omniconv/pkg/convert"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <input>",
	Short: "Convert a binary instrument file to CSV",
	Long: `Convert a binary instrument file (.chrome_flt, .chrome_uflt, .chromeuvd,
.chromeenv, .noise, .chromeanalysis or .out) to a comma-separated table.

The output defaults to the input path with ".csv" appended.

Examples:
  omniconv decode run1.chrome_flt
  omniconv decode run1.chrome_flt -o run1.csv --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, convert.ModeDecode, args[0])
	},
}

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <input>",
	Short: "Convert a CSV table to a binary instrument file",
	Long: `Convert a comma-separated table produced by decode back into a binary
instrument file.

The output defaults to the input path with ".out" appended.

Examples:
  omniconv encode run1.chrome_flt.csv
  omniconv encode edited.csv -o run1.chrome_flt --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, convert.ModeEncode, args[0])
	},
}

func runConversion(cmd *cobra.Command, mode convert.Mode, input string) error {
	output, _ := cmd.Flags().GetString("output")

	// Overrides apply to this run only
	opts := container.Config().Convert
	if cmd.Flags().Changed("force") {
		opts.Force, _ = cmd.Flags().GetBool("force")
	}
	if cmd.Flags().Changed("crlf") {
		opts.CRLF, _ = cmd.Flags().GetBool("crlf")
	}

	conv := container.ConverterFor(opts)
	var (
		res *convert.Result
		err error
	)
	if mode == convert.ModeDecode {
		res, err = conv.Decode(input, output)
	} else {
		res, err = conv.Encode(input, output)
	}
	if err != nil {
		return err
	}

	cmd.Printf("%s -> %s (%d series, %d samples, %d bytes) in %s\n",
		res.Input, res.Output, res.Series, res.Samples, res.OutputBytes, res.Duration.Round(time.Microsecond))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{decodeCmd, encodeCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringP("output", "o", "", "Output path (default: derived from the input path)")
		c.Flags().BoolP("force", "f", false, "Replace the output if it already exists")
	}
	decodeCmd.Flags().Bool("crlf", true, "Terminate rows with CRLF")
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/omniconv/pkg/document"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Show the headers of a binary instrument file",
	Long: `Show the file header and every series header of a binary instrument file
without converting it.

Examples:
  omniconv inspect run1.chrome_flt
  omniconv inspect run1.chrome_flt --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		summary, err := container.Converter().Inspect(args[0])
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), summary, format)
	},
}

func printSummary(w io.Writer, s document.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(s)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q: must be table, json or yaml", format)
	}

	fmt.Fprintf(w, "Instrument: %s\n", s.InstrumentName)
	fmt.Fprintf(w, "Method:     %s\n", s.MethodName)
	fmt.Fprintf(w, "Param:      %d\n", s.Param)
	fmt.Fprintf(w, "Series:     %d\n", s.SeriesCount)
	fmt.Fprintf(w, "Samples:    %d\n", s.Samples)
	fmt.Fprintf(w, "Size:       %d bytes\n", s.Bytes)
	if len(s.Series) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tF0\tF1\tF2\tF3\tF4\tSAMPLES")
	for i, ser := range s.Series {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n", i, ser.Name,
			ser.Fields[0], ser.Fields[1], ser.Fields[2], ser.Fields[3], ser.Fields[4], ser.ElementCount)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("format", "table", "Output format: table, json or yaml")
}

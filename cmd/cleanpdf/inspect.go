package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/novvoo/go-cleanpdf/pkg/pdf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Print the page count and page sizes of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		info, err := pdf.Inspect(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:  %s\n", args[0])
		fmt.Fprintf(out, "Size:  %s\n", humanize.Bytes(uint64(len(data))))
		fmt.Fprintf(out, "Pages: %d\n\n", info.Pages)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PAGE\tWIDTH (pt)\tHEIGHT (pt)\tWIDTH (mm)\tHEIGHT (mm)")
		for i, d := range info.Dims {
			fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.1f\t%.1f\n", i+1, d.Width, d.Height, d.Width*25.4/72, d.Height*25.4/72)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

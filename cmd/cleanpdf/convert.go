package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/novvoo/go-cleanpdf/pkg/cleanpdf"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.pdf> [output.pdf]",
	Short: "Trim margins and repack a PDF",
	Long: `Convert renders every selected page of input, crops it to its content,
scales the content to the printable width and stacks it onto new pages.
The result is written to output, or to <input>-clean.pdf next to the input.
Nothing is written when the conversion fails.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		input := args[0]
		output := defaultOutput(input)
		if len(args) == 2 {
			output = args[1]
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}

		p, err := cleanpdf.New(cfg, cleanpdf.WithLogger(log))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		out, report, err := p.Process(ctx, data)
		if err != nil {
			return fmt.Errorf("convert %s: %w", input, err)
		}

		if err := writeFileAtomic(output, out); err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"input":   input,
			"output":  output,
			"pages":   fmt.Sprintf("%d -> %d", report.Selected, report.OutputPages),
			"skipped": report.SkippedPages,
			"size":    fmt.Sprintf("%s -> %s", humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(out)))),
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("Converted")
		return nil
	},
}

func init() {
	convertCmd.Flags().Duration("timeout", 0, "abort the conversion after this long (0 for no limit)")

	rootCmd.AddCommand(convertCmd)
}

// defaultOutput derives report-clean.pdf from report.pdf
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-clean.pdf"
}

// writeFileAtomic writes data next to path and renames it into place
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cleanpdf-*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

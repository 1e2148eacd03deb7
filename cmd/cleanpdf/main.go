// Package main is the entry point for the cleanpdf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/novvoo/go-cleanpdf/pkg/cleanpdf"
)

// version is set at build time via ldflags.
var version = "dev"

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "cleanpdf",
	Short: "Trim page margins and repack PDF content onto print pages",
	Long: `cleanpdf rasterizes every page of a PDF, crops away the blank margins,
scales what is left to the printable width of the output paper and stacks
the pieces top to bottom, so a document with wide margins prints on fewer
sheets.

Settings come from flags, CLEANPDF_* environment variables and an optional
cleanpdf.yaml, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	def := cleanpdf.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./cleanpdf.yaml or ~/.config/cleanpdf/cleanpdf.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	flags.Float64("dpi", def.DPI, "rasterization and output resolution")
	flags.String("page-size", def.PageSize, "output paper: A3, A4, A5, Letter or Legal")
	flags.String("orientation", def.Orientation, "output orientation: portrait or landscape")
	flags.Float64("margin", def.MarginCM, "page margin in centimetres")
	flags.Float64("spacing", def.SpacingCM, "gap between stacked pieces in centimetres")
	flags.Int("threshold", def.Threshold, "channel-mean intensity below which a pixel is content (0-255)")
	flags.String("resampler", def.Resampler, "scaling filter: catmullrom, bilinear, approxbilinear or nearest")
	flags.Int("workers", def.Workers, "pages rasterized concurrently")
	flags.Int64("max-pixels", def.MaxPixels, "largest page render allowed, in pixels")
	flags.Bool("skip-failed", def.SkipFailedPages, "drop pages that fail to render instead of aborting")
	flags.Int("first-page", def.FirstPage, "first source page to process (1-based)")
	flags.Int("last-page", def.LastPage, "last source page to process (1-based, 0 for the end)")
	flags.String("encoding", def.Encoding, "output image encoding: jpeg or flate")
	flags.Int("jpeg-quality", def.JPEGQuality, "jpeg quality (1-100)")
	flags.Bool("page-numbers", def.PageNumbers, "print page numbers in the bottom margin")
	flags.Bool("validate", def.ValidateOutput, "validate the output with pdfcpu")
	flags.String("user-password", "", "user password of an encrypted input")
	flags.String("owner-password", "", "owner password of an encrypted input")

	for key, flag := range map[string]string{
		"log_level":         "log-level",
		"dpi":               "dpi",
		"page_size":         "page-size",
		"orientation":       "orientation",
		"margin_cm":         "margin",
		"spacing_cm":        "spacing",
		"threshold":         "threshold",
		"resampler":         "resampler",
		"workers":           "workers",
		"max_pixels":        "max-pixels",
		"skip_failed_pages": "skip-failed",
		"first_page":        "first-page",
		"last_page":         "last-page",
		"encoding":          "encoding",
		"jpeg_quality":      "jpeg-quality",
		"page_numbers":      "page-numbers",
		"validate_output":   "validate",
		"user_password":     "user-password",
		"owner_password":    "owner-password",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cleanpdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cleanpdf"))
		}
	}

	viper.SetEnvPrefix("CLEANPDF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("Using config file")
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (cleanpdf.Config, error) {
	cfg := cleanpdf.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

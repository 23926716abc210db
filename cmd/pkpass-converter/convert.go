package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pkpass-converter/internal/convert"
	"github.com/pdiddy/pkpass-converter/internal/pkpass"
	"github.com/pdiddy/pkpass-converter/internal/render"
	"github.com/pdiddy/pkpass-converter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every .pkpass file in a folder into PDF tickets",
	Long: `Convert extracts each .pkpass archive in the input folder, reads its
pass.json descriptor and writes ingresso_<N>.pdf into the output folder, where
N is the archive's position in sorted filename order. A pass that cannot be
converted is reported and skipped; the rest of the batch continues.

When the folders are not given by flag or configuration and stdin is a
terminal, convert asks for them. The defaults are ~/Downloads and
<input>/Ingressos_PDF.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("input", "", "folder containing the .pkpass files (default ~/Downloads)")
	convertCmd.Flags().String("output", "", "folder for the PDF tickets (default <input>/Ingressos_PDF)")
	convertCmd.Flags().String("report", "", "write a YAML batch report to this file")
	convertCmd.Flags().String("qr-backend", "", "QR encoder: skip2 or boombuler (default skip2)")
	convertCmd.Flags().Int("qr-size", 0, "pixel width of the generated QR image (default 512)")

	_ = viper.BindPFlag("input_dir", convertCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("report", convertCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("qr_backend", convertCmd.Flags().Lookup("qr-backend"))
	_ = viper.BindPFlag("qr_size", convertCmd.Flags().Lookup("qr-size"))

	rootCmd.AddCommand(convertCmd)
}

// loadConfig assembles the run configuration from viper keys.
func loadConfig(v *viper.Viper) types.ConverterConfig {
	cfg := types.ConverterConfig{
		InputDir:  v.GetString("input_dir"),
		OutputDir: v.GetString("output_dir"),
		Report:    v.GetString("report"),
		Render: types.RenderConfig{
			Fonts: types.FontConfig{
				Regular: v.GetString("fonts.regular"),
				Bold:    v.GetString("fonts.bold"),
				Italic:  v.GetString("fonts.italic"),
			},
			QRBackend: types.QRBackend(v.GetString("qr_backend")),
			QRSize:    v.GetInt("qr_size"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}
	prompter := dirPrompter{
		reader:      bufio.NewReader(cmd.InOrStdin()),
		w:           cmd.OutOrStdout(),
		home:        home,
		interactive: stdinIsTerminal(),
	}
	cfg.InputDir, cfg.OutputDir, err = prompter.resolve(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return err
	}

	enc, err := render.NewQREncoder(cfg.Render.QRBackend)
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg.Render, enc, logger)
	if err != nil {
		return err
	}

	driver := &convert.Driver{
		Extractor: pkpass.Extractor{},
		Renderer:  renderer,
		Logger:    logger,
	}
	result, err := driver.ConvertDir(cfg.InputDir, cfg.OutputDir, cmd.OutOrStdout())
	if cfg.Report != "" && result.Total() > 0 {
		if rerr := convert.WriteReport(cfg.Report, result); rerr != nil {
			return rerr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", cfg.Report)
	}
	return err
}

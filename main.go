package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nconklindev/canteiro/internal/config"
	"github.com/nconklindev/canteiro/internal/converter"
	"github.com/nconklindev/canteiro/internal/types"
	"github.com/nconklindev/canteiro/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg, envErr := config.FromEnv()

	cmd := &cobra.Command{
		Use:           "canteiro",
		Short:         "Convert the construction progress spreadsheet into the dashboard's dados.json",
		Version:       fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			if cmd.Flags().Changed("no-date") {
				noDate, _ := cmd.Flags().GetBool("no-date")
				cfg.WithDate = !noDate
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.Interactive {
				return runInteractive(cfg)
			}
			return runBatch(cfg, logger, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Input, "input", cfg.Input, "spreadsheet to convert (default: search docs/, the root and scripts/)")
	flags.StringVar(&cfg.InputName, "input-name", cfg.InputName, "spreadsheet file name searched for when --input is not set")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "JSON file to write, relative to --root")
	flags.StringVar(&cfg.Root, "root", cfg.Root, "project root directory")
	flags.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "timezone of the atualizado_em timestamp")
	flags.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "YAML file with extra header synonyms")
	flags.Bool("no-date", !cfg.WithDate, "omit the Data field")
	flags.BoolVarP(&cfg.Interactive, "interactive", "i", false, "pick the file and review the column mapping in a TUI")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log debug details")
	cmd.SetVersionTemplate("canteiro {{.Version}}\n")

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runInteractive(cfg config.Config) error {
	p := tea.NewProgram(ui.InitialModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func runBatch(cfg config.Config, log *slog.Logger, out io.Writer) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	log.Debug("conversion started",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"fields", opts.Schema.Names(),
		"timezone", opts.Location.String())

	result, err := converter.Convert(opts, nil)
	if err != nil {
		return err
	}

	log.Debug("conversion finished",
		"sheet", result.SheetName,
		"rows", result.RowsRead,
		"records", result.RecordsWritten,
		"skipped", result.SkippedRows,
		"blank_dates", result.BlankDates,
		"unparseable_dates", result.UnparseableDates)
	for field, header := range result.ColumnsFound {
		log.Debug("column resolved", "field", field, "header", header)
	}

	printSummary(out, result)
	return nil
}

func printSummary(out io.Writer, result *types.ConversionResult) {
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("OK: %s gerado com %d linhas.", result.OutputFile, result.RecordsWritten)))
	fmt.Fprintf(out, "Excel lido de: %s\n", result.InputFile)
	if n := result.EmptyDates(); n > 0 {
		fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("Atenção: %d linhas ficaram com Data vazia (Curva S ignora essas linhas).", n)))
	}
}

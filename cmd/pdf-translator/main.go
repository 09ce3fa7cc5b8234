package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hebdoc/pdf-translator/internal/config"
	"github.com/hebdoc/pdf-translator/internal/llm"
	"github.com/hebdoc/pdf-translator/internal/pdf"
	"github.com/hebdoc/pdf-translator/internal/sink"
	"github.com/hebdoc/pdf-translator/internal/translate"
)

const version = "1.0.0"

var (
	cfgFile   string
	outputDir string
	modelName string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "pdf-translator <pdf-file>",
	Short:   "Translate a PDF to Hebrew page by page and summarize it",
	Long: `pdf-translator renders each page of a PDF to an image, sends it to a
vision model for Hebrew translation with chapter/section detection, then
groups the translated pages into chunks and produces a long-form Hebrew
summary per chunk. Two text files result: the full translation and the
summary.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the output text files")
	rootCmd.Flags().StringVarP(&modelName, "model", "m", "", "override the LLM model")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if modelName != "" {
		cfg.Model.Name = modelName
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := pdf.ValidatePDFPath(pdfPath); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	runID := uuid.NewString()
	converter := pdf.NewConverter()
	client := llm.NewClient(cfg.Model.APIKey, cfg.Model.Name)

	pipeline := translate.NewPipeline(converter, client, cfg, logger)
	pipeline.SetRunID(runID)

	if cfg.Output.CSVPath != "" {
		csvSink, err := sink.NewCSVSink(cfg.Output.CSVPath, runID)
		if err != nil {
			return err
		}
		defer csvSink.Close()
		pipeline.AddSink(csvSink)
	}
	if cfg.Output.SQLitePath != "" {
		sqliteSink, err := sink.NewSQLiteSink(cfg.Output.SQLitePath, runID)
		if err != nil {
			return err
		}
		defer sqliteSink.Close()
		pipeline.AddSink(sqliteSink)
	}

	var bar *progressbar.ProgressBar
	pipeline.SetProgress(func(ev translate.ProgressEvent) {
		switch ev.Type {
		case translate.EventPageStart:
			if bar == nil {
				bar = progressbar.NewOptions(ev.TotalPages,
					progressbar.OptionSetDescription("Translating pages"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
				)
			}
		case translate.EventPageDone:
			if bar != nil {
				_ = bar.Add(1)
			}
			if ev.Failed {
				color.Red("page %d failed", ev.Page)
			}
		case translate.EventChunkStart:
			fmt.Fprintf(os.Stderr, "Summarizing chunk %d/%d...\n", ev.Chunk, ev.TotalChunks)
		}
	})

	color.Cyan("Processing PDF: %s", pdfPath)
	result, err := pipeline.Run(ctx, pdfPath)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	textSink, err := sink.NewFileSink(cfg.Output.Dir)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102_150405")
	translationName := fmt.Sprintf("translation_%s.txt", ts)
	summaryName := fmt.Sprintf("summary_%s.txt", ts)

	if err := textSink.WriteText(translationName, result.Translation); err != nil {
		return err
	}
	if err := textSink.WriteText(summaryName, result.Summary); err != nil {
		return err
	}

	color.Green("✓ Translation written to %s", textSink.Path(translationName))
	color.Green("✓ Summary written to %s", textSink.Path(summaryName))
	fmt.Printf("Pages: %d ok, %d failed | Chunks: %d | Took: %v\n",
		result.Stats.SuccessfulPages,
		result.Stats.FailedPages,
		result.Stats.Chunks,
		result.Stats.TotalTime.Round(time.Second),
	)

	return nil
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Str("service", "pdf-translator").Logger()
}

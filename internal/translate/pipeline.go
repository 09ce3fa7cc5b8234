package translate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hebdoc/pdf-translator/internal/config"
	"github.com/hebdoc/pdf-translator/internal/domain"
)

// EventType identifies a progress event.
type EventType string

const (
	EventPageStart  EventType = "page_start"
	EventPageDone   EventType = "page_done"
	EventChunkStart EventType = "chunk_start"
	EventChunkDone  EventType = "chunk_done"
)

// ProgressEvent reports pipeline progress to an optional observer (the CLI
// progress bar).
type ProgressEvent struct {
	Type        EventType
	Page        int
	TotalPages  int
	Chunk       int
	TotalChunks int
	Failed      bool
}

// ProgressFunc consumes progress events. It runs on the pipeline goroutine
// and must not block.
type ProgressFunc func(ProgressEvent)

// Result is the complete outcome of one pipeline run.
type Result struct {
	RunID       string
	Pages       []domain.PageResult
	Chunks      []domain.Chunk
	Summaries   []domain.ChunkSummary
	Translation string
	Summary     string
	Stats       domain.ProcessingStats
}

// Pipeline wires the renderer, sequencer, chunker, summarizer, and
// assemblers into the full document run. Safe to construct and run
// repeatedly within one process; all run state is local to Run.
type Pipeline struct {
	converter domain.Converter
	client    ModelClient
	cfg       *config.Config
	logger    zerolog.Logger
	sinks     []domain.PageSink
	progress  ProgressFunc
	runID     string
}

// NewPipeline creates a pipeline.
func NewPipeline(converter domain.Converter, client ModelClient, cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		converter: converter,
		client:    client,
		cfg:       cfg,
		logger:    logger,
	}
}

// AddSink registers a best-effort per-page sink.
func (p *Pipeline) AddSink(sink domain.PageSink) {
	p.sinks = append(p.sinks, sink)
}

// SetProgress registers a progress observer.
func (p *Pipeline) SetProgress(fn ProgressFunc) {
	p.progress = fn
}

// SetRunID fixes the run identifier, so callers can stamp sink rows with
// the same ID before the run starts. When unset, Run generates one.
func (p *Pipeline) SetRunID(id string) {
	p.runID = id
}

// Run executes the full pipeline for one PDF. Page image artifacts are
// released on every exit path.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Result, error) {
	start := time.Now()
	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := p.logger.With().Str("run_id", runID).Logger()

	defer func() {
		if err := p.converter.Cleanup(); err != nil {
			logger.Warn().Err(err).Msg("cleanup of page images failed")
		}
	}()

	logger.Info().Str("pdf", pdfPath).Msg("rendering pages")
	pages, err := p.converter.Convert(ctx, pdfPath, p.cfg.Pipeline.ImageQuality)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("pages", len(pages)).Msg("rendered")

	sequencer := NewSequencer(p.client, p.cfg, logger, p.sinks...)
	sequencer.Progress = p.progress
	results, err := sequencer.Run(ctx, pages)
	if err != nil {
		return nil, err
	}

	translation := AssembleDocument(results)
	chunks := BuildChunks(results, p.cfg.Pipeline.MaxChunkChars)
	logger.Info().Int("chunks", len(chunks)).Msg("chunked translation")

	summarizer := NewSummarizer(p.client, p.cfg, logger)
	summarizer.Progress = p.progress
	summaries, err := summarizer.SummarizeChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	ok, failed := 0, 0
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}

	res := &Result{
		RunID:       runID,
		Pages:       results,
		Chunks:      chunks,
		Summaries:   summaries,
		Translation: translation,
		Summary:     AssembleSummary(summaries),
		Stats: domain.ProcessingStats{
			TotalTime:       time.Since(start),
			PagesProcessed:  len(results),
			SuccessfulPages: ok,
			FailedPages:     failed,
			Chunks:          len(chunks),
		},
	}

	logger.Info().
		Int("pages", res.Stats.PagesProcessed).
		Int("ok", res.Stats.SuccessfulPages).
		Int("failed", res.Stats.FailedPages).
		Dur("took", res.Stats.TotalTime).
		Msg("pipeline complete")

	return res, nil
}

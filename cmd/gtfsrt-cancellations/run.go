package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/config"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/formatter"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/metrics"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/output"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/v3api"
)

// stageError ties a run failure to the stage it happened in.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// run executes one pipeline run, logs its outcome and pushes metrics when a
// Pushgateway is configured.
func run(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger, dryRun bool) error {
	start := time.Now()
	collector := metrics.NewCollector()

	err := pipeline(ctx, cfg, logger, collector, dryRun)
	if err != nil {
		stage := "setup"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		collector.ObserveFailure(stage)
		logFailure(logger, stage, err)
	} else {
		collector.ObserveSuccess(time.Now(), time.Since(start))
	}

	if cfg.Metrics.PushgatewayURL != "" {
		if pushErr := collector.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); pushErr != nil {
			logger.Warn().Err(pushErr).Msg("metrics push failed")
		}
	}
	return err
}

func pipeline(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger, collector *metrics.Collector, dryRun bool) error {
	loc, err := cfg.Converter.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}
	policy, err := converter.ParseMergePolicy(cfg.Converter.MergePolicy)
	if err != nil {
		return err
	}
	client, err := v3api.NewClient(v3api.Config{
		APIKey:    cfg.API.Key,
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout(),
		PageLimit: cfg.API.PageLimit,
		Logger:    logger.With().Str("component", "v3api").Logger(),
	})
	if err != nil {
		return err
	}

	var alerts converter.AlertSource = client
	if cfg.API.AlertsFeedURL != "" {
		alerts = gtfsrt.NewAlertFeed(cfg.API.AlertsFeedURL, gtfsrt.FeedConfig{
			Timeout: cfg.API.Timeout(),
			Logger:  logger.With().Str("component", "gtfsrt").Logger(),
		})
	}

	conv := converter.NewConverter(alerts, client, converter.ConverterOptions{
		Location:         loc,
		MergePolicy:      policy,
		QueryConcurrency: cfg.Converter.QueryConcurrency,
		Logger:           logger.With().Str("component", "converter").Logger(),
	})

	feed, stats, err := conv.BuildFeed(ctx)
	if err != nil {
		return &stageError{stage: metrics.StageFetch, err: err}
	}
	collector.ObserveStats(stats)

	jsonData, err := formatter.EncodeJSON(feed)
	if err != nil {
		return &stageError{stage: metrics.StageEncode, err: err}
	}
	pbData, err := formatter.EncodeProtobuf(feed)
	if err != nil {
		return &stageError{stage: metrics.StageEncode, err: err}
	}
	files := output.FeedFiles(jsonData, pbData)

	if dryRun {
		for _, f := range files {
			logger.Info().Str("file", f.Name).Int("bytes", len(f.Data)).Msg("dry run, not publishing")
		}
		return nil
	}

	w, err := output.NewWriter(ctx, output.Config{
		Directory: cfg.Output.Directory,
		Bucket:    cfg.Output.Bucket,
		Prefix:    cfg.Output.Prefix,
		Logger:    logger,
	})
	if err != nil {
		return &stageError{stage: metrics.StagePublish, err: err}
	}
	if closer, ok := w.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := output.Publish(ctx, w, files...); err != nil {
		return &stageError{stage: metrics.StagePublish, err: err}
	}
	for _, f := range files {
		collector.ObservePublished(f.Name, len(f.Data))
		logger.Info().Str("location", w.Location(f.Name)).Int("bytes", len(f.Data)).Msg("published feed")
	}
	return nil
}

// logFailure logs a run failure once, with the context its error carries.
func logFailure(logger zerolog.Logger, stage string, err error) {
	event := logger.Error().Err(err).Str("stage", stage)

	var fetchErr *transit.FetchError
	var writeErr *output.WriteError
	switch {
	case errors.As(err, &fetchErr):
		event = event.Str("url", fetchErr.URL)
		if fetchErr.StatusCode != 0 {
			event = event.Int("status", fetchErr.StatusCode)
		}
	case errors.As(err, &writeErr):
		event = event.Str("target", writeErr.Target)
	case errors.Is(err, formatter.ErrEncoding):
		event = event.Bool("encoding", true)
	}
	event.Msg("run failed")
}

// Package pipeline runs the analysis stages in order:
// load, summarize, preprocess and train. Each stage takes the previous
// stage's output and returns new values; nothing is shared or mutated.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/fraudlens/internal/analytics"
	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/dataset"
	"github.com/cleared-dev/fraudlens/internal/features"
	"github.com/cleared-dev/fraudlens/internal/logger"
	"github.com/cleared-dev/fraudlens/internal/model"
	"github.com/cleared-dev/fraudlens/internal/training"
)

// Stage names a pipeline step.
type Stage int

const (
	StageLoad Stage = iota
	StageSummarize
	StagePreprocess
	StageTrain
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageSummarize:
		return "summarize"
	case StagePreprocess:
		return "preprocess"
	case StageTrain:
		return "train"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Result holds every stage output of one run. Fields for stages that did
// not run are nil or zero.
type Result struct {
	RunID        string
	Source       string
	StartedAt    time.Time
	Duration     time.Duration
	Raw          *dataset.Table
	Transactions []model.Transaction
	Summary      analytics.Summary
	Processed    *features.Processed
	Features     []string
	Training     *training.Result
}

// Run executes all stages on the dataset at source.
func Run(ctx context.Context, source string, cfg *config.Config) (*Result, error) {
	return RunUntil(ctx, source, cfg, StageTrain)
}

// RunUntil executes stages up to and including last. The context is checked
// between stages.
func RunUntil(ctx context.Context, source string, cfg *config.Config, last Stage) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
	}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Logger()
	log.Info().Str("source", source).Str("until", last.String()).Msg("pipeline started")

	stages := []struct {
		stage Stage
		run   func() error
	}{
		{StageLoad, func() error {
			f, err := dataset.DefaultRegistry().Resolve(source, cfg.Dataset.Format)
			if err != nil {
				return err
			}
			res.Raw, err = dataset.Load(source, f)
			return err
		}},
		{StageSummarize, func() error {
			txns, err := dataset.Decode(res.Raw, cfg.Columns)
			if err != nil {
				return err
			}
			res.Transactions = txns
			res.Summary = analytics.Summarize(txns)
			return nil
		}},
		{StagePreprocess, func() error {
			var err error
			res.Processed, res.Features, err = features.Preprocess(res.Raw, cfg.Columns)
			return err
		}},
		{StageTrain, func() error {
			var err error
			res.Training, err = training.Train(res.Processed, cfg.Split, cfg.Models)
			return err
		}},
	}

	for _, s := range stages {
		if s.stage > last {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := s.run(); err != nil {
			log.Error().Err(err).Str("stage", s.stage.String()).Msg("stage failed")
			return nil, fmt.Errorf("%s: %w", s.stage, err)
		}
		log.Info().Str("stage", s.stage.String()).Dur("duration", time.Since(start)).Msg("stage complete")
	}

	res.Duration = time.Since(res.StartedAt)
	ev := log.Info().Dur("duration", res.Duration)
	if res.Raw != nil {
		ev = ev.Int("rows", res.Raw.Len())
	}
	ev.Msg("pipeline finished")
	return res, nil
}

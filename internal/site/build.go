package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.ormside.net/rke/blogbuilder/internal/docmodel"
	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/logfields"
	"git.ormside.net/rke/blogbuilder/internal/metrics"
)

// Stage names, in execution order.
const (
	StageDiscover = "discover"
	StageParse    = "parse"
	StageAssemble = "assemble"
	StageWrite    = "write"
)

// StageResult captures one executed stage.
type StageResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Report summarizes one build run.
type Report struct {
	BuildID   string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   string // success|failed
	Pages     int
	Drafts    int
	Stages    []StageResult
	Problems  []Problem
}

// Builder runs the full pipeline: discover, parse, assemble, write.
//
// Every build recomputes everything from the content store; there is no
// cross-build cache.
type Builder struct {
	ContentDir string
	Writer     Writer
	Opts       Options
	Recorder   metrics.Recorder
}

func (b *Builder) recorder() metrics.Recorder {
	if b.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return b.Recorder
}

func (b *Builder) now() time.Time { return time.Now() }

// Run executes the pipeline and returns a report. The report is returned even
// on failure so callers can persist and publish the outcome.
func (b *Builder) Run(ctx context.Context) (*Report, *Site, error) {
	rec := b.recorder()
	report := &Report{
		BuildID:   uuid.NewString(),
		StartedAt: b.now(),
	}
	log := slog.With(logfields.BuildID(report.BuildID))

	fail := func(stage string, err error) (*Report, *Site, error) {
		rec.IncStageResult(stage, metrics.ResultFailed)
		if ferrors.IsDocumentError(err) {
			rec.IncDocumentError(string(ferrors.GetCategory(err)))
		}
		report.Duration = b.now().Sub(report.StartedAt)
		report.Outcome = "failed"
		rec.ObserveBuildDuration(report.Duration)
		rec.IncBuildOutcome(report.Outcome)
		log.Error("build failed", logfields.Stage(stage), logfields.Error(err))
		return report, nil, err
	}

	runStage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryBuild, "build canceled").Build()
		}
		start := b.now()
		err := fn()
		d := b.now().Sub(start)
		report.Stages = append(report.Stages, StageResult{Name: name, Duration: d, Err: err})
		rec.ObserveStageDuration(name, d)
		if err == nil {
			rec.IncStageResult(name, metrics.ResultSuccess)
			log.Debug("stage complete", logfields.Stage(name), logfields.DurationMS(float64(d.Milliseconds())))
		}
		return err
	}

	var sources []Source
	if err := runStage(StageDiscover, func() error {
		var err error
		sources, err = Discover(b.ContentDir)
		return err
	}); err != nil {
		return fail(StageDiscover, err)
	}

	var docs []*docmodel.Document
	if err := runStage(StageParse, func() error {
		for _, src := range sources {
			doc, err := docmodel.ParseFile(src.Path, src.RelPath)
			if err != nil {
				if b.Opts.KeepGoing && ferrors.IsDocumentError(err) {
					slug := docmodel.SlugFromPath(src.RelPath)
					log.Warn("skipping document", logfields.Slug(slug), logfields.Error(err))
					rec.IncDocumentError(string(ferrors.GetCategory(err)))
					report.Problems = append(report.Problems, Problem{Slug: slug, Err: err})
					continue
				}
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}); err != nil {
		return fail(StageParse, err)
	}

	var assembled *Site
	if err := runStage(StageAssemble, func() error {
		var err error
		assembled, err = Assemble(docs, b.Opts)
		return err
	}); err != nil {
		return fail(StageAssemble, err)
	}
	report.Problems = append(report.Problems, assembled.Problems...)
	for _, p := range assembled.Problems {
		rec.IncDocumentError(string(ferrors.GetCategory(p.Err)))
	}

	if err := runStage(StageWrite, func() error {
		return b.Writer.Write(assembled, report.BuildID, report.StartedAt)
	}); err != nil {
		return fail(StageWrite, err)
	}

	report.Duration = b.now().Sub(report.StartedAt)
	report.Outcome = "success"
	report.Pages = len(assembled.Pages)
	report.Drafts = assembled.DraftsSkipped

	rec.ObserveBuildDuration(report.Duration)
	rec.IncBuildOutcome(report.Outcome)
	rec.AddPagesRendered(report.Pages)
	rec.AddDraftsSkipped(report.Drafts)

	log.Info("build complete",
		logfields.Pages(report.Pages),
		logfields.Drafts(report.Drafts),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	return report, assembled, nil
}

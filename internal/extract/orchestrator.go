package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"smcextract/internal/config"
	"smcextract/internal/logging"
	"smcextract/internal/manifest"
	"smcextract/internal/services/ffmpeg"
	"smcextract/internal/smc"
	"smcextract/internal/transfer"
)

// Orchestrator drives configured units through the fetch, index, extract
// lifecycle against the durable manifest. A local container is deleted
// strictly after the unit's terminal manifest row is durable.
type Orchestrator struct {
	cfg       *config.Config
	store     *manifest.Store
	manager   transfer.Manager
	extractor *Extractor
	layout    Layout
	logger    *slog.Logger
}

// New wires an orchestrator from config. manager performs remote fetches;
// pass a stub in tests.
func New(cfg *config.Config, store *manifest.Store, manager transfer.Manager, logger *slog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("manifest store is nil")
	}
	if manager == nil {
		return nil, errors.New("transfer manager is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	selection, err := NewSelection(cfg)
	if err != nil {
		return nil, err
	}

	var transcoder ffmpeg.Client
	if cfg.Output.AudioMP3 {
		transcoder = ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Output.FFmpegBinary))
	}

	extractor, err := NewExtractor(cfg, selection, transcoder, logger)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		manager:   manager,
		extractor: extractor,
		layout:    NewLayout(cfg.Paths.OutputDir),
		logger:    logging.WithComponent(logger, "orchestrator"),
	}, nil
}

// Run processes every configured unit and returns the run report. It
// returns an error only when the run as a whole must stop: cancellation or
// a manifest write failure. Individual unit failures are recorded in the
// manifest and the report instead.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	runID := strings.SplitN(uuid.NewString(), "-", 2)[0]
	log := o.logger.With(slog.String(logging.FieldRunID, runID))

	if reset, err := o.store.ResetInFlight(ctx); err != nil {
		return nil, err
	} else if reset > 0 {
		log.Info("reset interrupted units", slog.Int("count", reset))
	}

	units := UnitsFromConfig(o.cfg)
	keys := make([]manifest.Key, len(units))
	for i, unit := range units {
		keys[i] = unit.Key()
	}

	report := &Report{RunID: runID}
	for round := 0; ; round++ {
		entries, err := o.store.Load(ctx, keys)
		if err != nil {
			return nil, err
		}
		if round == 0 {
			// Failed units from earlier runs wait for an explicit reset.
			entries = withoutFailed(entries)
		} else {
			entries = o.requeueRetryable(ctx, entries, round, log)
		}
		if len(entries) == 0 {
			break
		}

		if err := o.runPass(ctx, entries, report, log); err != nil {
			return nil, err
		}
		if round >= o.cfg.Workflow.RetryLimit {
			break
		}
	}

	failed, err := o.store.List(ctx, manifest.StatusFailed)
	if err != nil {
		return nil, err
	}
	for _, entry := range failed {
		report.Failed++
		if entry.RetryEligible {
			report.RetryEligible = append(report.RetryEligible, entry.Key())
		}
	}

	log.Info("run finished",
		slog.Int("completed", report.Completed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func withoutFailed(entries []*manifest.Entry) []*manifest.Entry {
	var work []*manifest.Entry
	for _, entry := range entries {
		if entry.Status != manifest.StatusFailed {
			work = append(work, entry)
		}
	}
	return work
}

// requeueRetryable moves retry-eligible failed entries back to pending and
// returns the subset of entries still worth processing this round.
func (o *Orchestrator) requeueRetryable(ctx context.Context, entries []*manifest.Entry, round int, log *slog.Logger) []*manifest.Entry {
	var work []*manifest.Entry
	for _, entry := range entries {
		if entry.Status == manifest.StatusFailed {
			if !entry.RetryEligible || entry.Attempts > round {
				continue
			}
			if err := o.store.Transition(ctx, entry, manifest.StatusPending); err != nil {
				log.Warn("requeue failed unit", logging.Error(err))
				continue
			}
			log.Info("retrying failed unit",
				slog.String(logging.FieldSubject, entry.Subject),
				slog.String(logging.FieldPerformance, entry.Performance),
				slog.Int("attempt", entry.Attempts+1))
		}
		work = append(work, entry)
	}
	return work
}

// runPass processes one batch of entries with the unit worker pool.
func (o *Orchestrator) runPass(ctx context.Context, entries []*manifest.Entry, report *Report, log *slog.Logger) error {
	workers := o.cfg.Workers.Units
	if workers < 1 {
		workers = 1
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	queue := make(chan *manifest.Entry)
	stop := make(chan struct{})
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stopOnce sync.Once
		fatal    error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range queue {
				err := o.processUnit(ctx, entry, report, &mu, log)
				if err == nil {
					continue
				}
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				stopOnce.Do(func() { close(stop) })
				return
			}
		}()
	}

feed:
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			break feed
		case <-stop:
			break feed
		case queue <- entry:
		}
	}
	close(queue)
	wg.Wait()

	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}

// processUnit drives one unit through its lifecycle. The returned error is
// non-nil only for run-fatal conditions: cancellation and manifest write
// failures.
func (o *Orchestrator) processUnit(ctx context.Context, entry *manifest.Entry, report *Report, mu *sync.Mutex, log *slog.Logger) error {
	unit := Unit{Subject: entry.Subject, Performance: entry.Performance}
	ulog := logging.WithUnit(log, unit.Subject, unit.Performance)

	if o.layout.IsComplete(unit) {
		if entry.Status != manifest.StatusCompleted && entry.Status.CanTransition(manifest.StatusCompleted) {
			if err := o.store.Transition(ctx, entry, manifest.StatusCompleted); err != nil {
				return o.classifyRunError(err)
			}
		}
		mu.Lock()
		report.Skipped++
		mu.Unlock()
		ulog.Info("output already complete, skipping")
		return nil
	}

	if err := o.store.Transition(ctx, entry, manifest.StatusFetching); err != nil {
		return o.classifyRunError(err)
	}
	ulog.Info("fetching container", slog.String("remote_key", unit.RemoteKey()))
	localPath, err := o.manager.Fetch(ctx, unit.RemoteKey(), o.cfg.Paths.ScratchDir)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return o.failUnit(ctx, entry, "", err, ulog)
	}

	if err := o.store.Transition(ctx, entry, manifest.StatusIndexing); err != nil {
		return o.classifyRunError(err)
	}
	reader, err := smc.Open(localPath)
	if err != nil {
		return o.failUnit(ctx, entry, localPath, err, ulog)
	}

	if err := o.store.Transition(ctx, entry, manifest.StatusExtracting); err != nil {
		reader.Close()
		return o.classifyRunError(err)
	}
	ulog.Info("extracting",
		slog.Int("streams", reader.StreamCount()),
		slog.Int("declared_cameras", reader.Header().NumDevice),
		slog.Int("declared_frames", reader.Header().NumFrame))
	summary, err := o.extractor.ExtractUnit(ctx, reader, unit, o.layout)
	reader.Close()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return o.failUnit(ctx, entry, localPath, err, ulog)
	}

	if err := o.layout.WriteMarker(unit, summary); err != nil {
		return o.failUnit(ctx, entry, localPath, err, ulog)
	}

	entry.CamerasExtracted = summary.CamerasExtracted
	entry.FrameCount = summary.FrameCount
	if size, err := o.layout.UnitSize(unit); err == nil {
		entry.SizeBytes = size
	}
	if err := o.store.Transition(ctx, entry, manifest.StatusCompleted); err != nil {
		return o.classifyRunError(err)
	}

	// The completed row is durable; only now may the local copy go.
	if err := o.manager.Delete(localPath); err != nil {
		ulog.Warn("scratch cleanup failed", logging.Error(err))
	}

	mu.Lock()
	report.Completed++
	mu.Unlock()
	ulog.Info("unit completed",
		slog.Int("cameras", summary.CamerasExtracted),
		slog.Int("frames", summary.FrameCount),
		slog.Int("streams_decoded", summary.StreamsDecoded),
		slog.Int("decode_failures", summary.DecodeFailures))
	return nil
}

// failUnit records a unit failure durably, then removes the local container
// copy. Transfer and container errors are retryable; anything else needs
// operator attention first.
func (o *Orchestrator) failUnit(ctx context.Context, entry *manifest.Entry, localPath string, cause error, ulog *slog.Logger) error {
	entry.ErrorMessage = cause.Error()
	entry.RetryEligible = isRetryable(cause)
	if err := o.store.Transition(ctx, entry, manifest.StatusFailed); err != nil {
		return o.classifyRunError(err)
	}
	ulog.Error("unit failed",
		logging.Error(cause),
		slog.Bool("retry_eligible", entry.RetryEligible),
		slog.Int("attempts", entry.Attempts))

	// The failed row is durable; the corrupt or partial copy can go.
	if localPath != "" {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			ulog.Warn("scratch cleanup failed", logging.Error(err))
		}
	}
	return nil
}

// classifyRunError decides whether a store error halts the run. Manifest
// write failures always do.
func (o *Orchestrator) classifyRunError(err error) error {
	var writeErr *manifest.WriteError
	if errors.As(err, &writeErr) {
		return fmt.Errorf("halting run: %w", err)
	}
	return err
}

// isRetryable reports whether a later fetch could plausibly succeed where
// this attempt failed.
func isRetryable(err error) bool {
	var transferErr *transfer.Error
	if errors.As(err, &transferErr) {
		return true
	}
	return errors.Is(err, smc.ErrContainerCorrupt) || errors.Is(err, smc.ErrContainerNotFound)
}

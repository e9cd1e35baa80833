// Package dataset owns the current log snapshot. Ingestion is serialized;
// readers load an immutable snapshot without locking.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"loginsight/internal/analytics"
	"loginsight/internal/metrics"
)

// Sources of an ingestion.
const (
	SourceStartup = "startup"
	SourceUpload  = "upload"
)

// Outcomes of an ingestion.
const (
	OutcomeLoaded   = "loaded"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
)

// Snapshot is one immutable loaded dataset.
type Snapshot struct {
	ID       uuid.UUID
	Table    *analytics.Table
	Source   string
	Name     string
	Fallback bool
	LoadedAt time.Time
}

// Run describes one ingestion attempt for the history log.
type Run struct {
	SnapshotID  uuid.UUID
	Source      string
	Name        string
	Outcome     string
	Compression Compression
	Records     int
	LookupFails int
	Duration    time.Duration
	Err         string
	Categories  map[string]int
	At          time.Time
}

// RunRecorder persists ingestion history.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// NopRecorder drops every run.
type NopRecorder struct{}

func (NopRecorder) RecordRun(context.Context, Run) error { return nil }

// UploadResult is reported back to the uploader. Accepted is false when
// the upload was rejected and the previous snapshot kept serving.
type UploadResult struct {
	Accepted bool
	Snapshot *Snapshot
	Records  int
	Err      error
}

// Options configures a Store. Zero values get defaults.
type Options struct {
	Normalizer     *analytics.Normalizer
	Generator      *analytics.Generator
	Recorder       RunRecorder
	Logger         zerolog.Logger
	MaxUploadBytes int64
	Now            func() time.Time
}

// Store holds the current snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]

	// mu serializes ingestion; the normalizer and generator share an rng
	// that is not safe for concurrent use.
	mu         sync.Mutex
	normalizer *analytics.Normalizer
	generator  *analytics.Generator
	recorder   RunRecorder
	log        zerolog.Logger
	maxBytes   int64
	now        func() time.Time
}

// New returns an empty Store. Call LoadFile before serving reads.
func New(opts Options) *Store {
	s := &Store{
		normalizer: opts.Normalizer,
		generator:  opts.Generator,
		recorder:   opts.Recorder,
		log:        opts.Logger,
		maxBytes:   opts.MaxUploadBytes,
		now:        opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.normalizer == nil || s.generator == nil {
		rng := rand.New(rand.NewPCG(uint64(s.now().UnixNano()), 0))
		if s.normalizer == nil {
			s.normalizer = analytics.NewNormalizer(rng)
			s.normalizer.Now = s.now
		}
		if s.generator == nil {
			s.generator = analytics.NewGenerator(rng)
			s.generator.Now = s.now
		}
	}
	if s.recorder == nil {
		s.recorder = NopRecorder{}
	}
	return s
}

// Current returns the serving snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// LoadFile ingests path as the startup dataset. It never fails: when the
// file is missing or invalid a synthetic snapshot is installed instead.
func (s *Store) LoadFile(ctx context.Context, path string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	run := Run{Source: SourceStartup, Name: path, At: start}

	table, err := s.loadPath(ctx, path, &run)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("startup dataset unavailable, using fallback data")
		snap := s.installFallback(SourceStartup, path)
		run.SnapshotID = snap.ID
		run.Outcome = OutcomeFallback
		run.Err = err.Error()
		s.finish(ctx, run, snap, start)
		return snap
	}

	snap := s.install(table, SourceStartup, path, false)
	run.SnapshotID = snap.ID
	run.Outcome = OutcomeLoaded
	s.finish(ctx, run, snap, start)
	return snap
}

func (s *Store) loadPath(ctx context.Context, path string, run *Run) (*analytics.Table, error) {
	if path == "" {
		return nil, errors.New("no data path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// Startup files are trusted; only uploads are size limited.
	return s.ingest(ctx, f, 0, run)
}

// Upload ingests r as a replacement dataset. On failure the previous
// snapshot keeps serving; if there is none, fallback data is installed.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) UploadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	run := Run{Source: SourceUpload, Name: name, At: start}

	table, err := s.ingest(ctx, r, s.maxBytes, &run)
	if err != nil {
		run.Err = err.Error()
		prev := s.current.Load()
		if prev == nil {
			s.log.Warn().Err(err).Str("name", name).Msg("upload rejected, no previous dataset, using fallback data")
			snap := s.installFallback(SourceUpload, name)
			run.SnapshotID = snap.ID
			run.Outcome = OutcomeFallback
			s.finish(ctx, run, snap, start)
			return UploadResult{Snapshot: snap, Records: snap.Table.Len(), Err: err}
		}
		s.log.Warn().Err(err).Str("name", name).Str("kept_snapshot", prev.ID.String()).Msg("upload rejected, keeping previous dataset")
		run.SnapshotID = prev.ID
		run.Outcome = OutcomeRejected
		s.finish(ctx, run, nil, start)
		return UploadResult{Snapshot: prev, Err: err}
	}

	snap := s.install(table, SourceUpload, name, false)
	run.SnapshotID = snap.ID
	run.Outcome = OutcomeLoaded
	s.finish(ctx, run, snap, start)
	return UploadResult{Accepted: true, Snapshot: snap, Records: table.Len()}
}

// ingest decodes, parses and normalizes one input. Must hold s.mu.
func (s *Store) ingest(ctx context.Context, r io.Reader, limit int64, run *Run) (*analytics.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, kind, err := ReadAll(r, limit)
	run.Compression = kind
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := analytics.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	unknown := map[string]int{}
	n := *s.normalizer
	n.LookupFailed = func(country string) {
		unknown[country]++
		run.LookupFails++
		metrics.LookupFailures.Inc()
	}
	table, err := n.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if len(unknown) > 0 {
		s.log.Warn().
			Int("rows", run.LookupFails).
			Int("countries", len(unknown)).
			Msg("countries without a known continent mapped to " + analytics.UnknownContinent)
	}
	return table, nil
}

func (s *Store) installFallback(source, name string) *Snapshot {
	return s.install(s.generator.Synthesize(), source, name, true)
}

func (s *Store) install(t *analytics.Table, source, name string, fallback bool) *Snapshot {
	snap := &Snapshot{
		ID:       uuid.New(),
		Table:    t,
		Source:   source,
		Name:     name,
		Fallback: fallback,
		LoadedAt: s.now(),
	}
	s.current.Store(snap)
	return snap
}

// finish logs, counts and records a run. installed is nil when the run did
// not replace the snapshot.
func (s *Store) finish(ctx context.Context, run Run, installed *Snapshot, start time.Time) {
	run.Duration = s.now().Sub(start)

	records, fallback := 0, false
	if installed != nil {
		records, fallback = installed.Table.Len(), installed.Fallback
		run.Records = records
		run.Categories = categoryCounts(installed.Table)
		s.log.Info().
			Str("snapshot", installed.ID.String()).
			Str("source", run.Source).
			Str("name", run.Name).
			Int("records", records).
			Bool("fallback", fallback).
			Dur("took", run.Duration).
			Msg("dataset installed")
	}
	metrics.RecordIngestion(run.Source, run.Outcome, records, fallback)

	if err := s.recorder.RecordRun(ctx, run); err != nil {
		s.log.Error().Err(err).Str("source", run.Source).Msg("failed to record ingestion run")
	}
}

func categoryCounts(t *analytics.Table) map[string]int {
	rep := analytics.Aggregate(t)
	out := make(map[string]int, len(rep.CategoryDist))
	for _, kc := range rep.CategoryDist {
		out[kc.Key] = kc.Count
	}
	return out
}

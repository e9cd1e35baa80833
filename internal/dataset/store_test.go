package dataset

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginsight/internal/analytics"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeRecorder struct {
	mu   sync.Mutex
	runs []Run
	err  error
}

func (f *fakeRecorder) RecordRun(_ context.Context, run Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeRecorder) last() Run {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[len(f.runs)-1]
}

func newTestStore(t *testing.T, rec RunRecorder) *Store {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	now := func() time.Time { return testNow }

	n := analytics.NewNormalizer(rng)
	n.Now = now
	g := analytics.NewGenerator(rng)
	g.Now = now
	g.Size = 25

	return New(Options{
		Normalizer:     n,
		Generator:      g,
		Recorder:       rec,
		Logger:         zerolog.Nop(),
		MaxUploadBytes: 1 << 20,
		Now:            now,
	})
}

func sampleCSV(t *testing.T, rows int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, analytics.WriteRawCSV(&buf, analytics.SampleLog(rand.New(rand.NewPCG(7, 7)), rows)))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestStore_CurrentBeforeLoad(t *testing.T) {
	assert.Nil(t, newTestStore(t, nil).Current())
}

func TestLoadFile(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestStore(t, rec)

	snap := s.LoadFile(context.Background(), writeFile(t, "logs.csv", sampleCSV(t, 120)))
	require.NotNil(t, snap)
	assert.False(t, snap.Fallback)
	assert.Equal(t, 120, snap.Table.Len())
	assert.Equal(t, SourceStartup, snap.Source)
	assert.Same(t, snap, s.Current())

	run := rec.last()
	assert.Equal(t, OutcomeLoaded, run.Outcome)
	assert.Equal(t, snap.ID, run.SnapshotID)
	assert.Equal(t, 120, run.Records)
	assert.Equal(t, None, run.Compression)

	total := 0
	for _, n := range run.Categories {
		total += n
	}
	assert.Equal(t, 120, total)
}

func TestLoadFile_Compressed(t *testing.T) {
	plain := sampleCSV(t, 60)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zs := enc.EncodeAll(plain, nil)
	require.NoError(t, enc.Close())

	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"logs.csv.gz", gz.Bytes(), Gzip},
		{"logs.csv.zst", zs, Zstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			snap := newTestStore(t, rec).LoadFile(context.Background(), writeFile(t, tt.name, tt.data))
			assert.False(t, snap.Fallback)
			assert.Equal(t, 60, snap.Table.Len())
			assert.Equal(t, tt.want, rec.last().Compression)
		})
	}
}

func TestLoadFile_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"no path", func(*testing.T) string { return "" }},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") }},
		{"schema error", func(t *testing.T) string { return writeFile(t, "bad.csv", []byte("when,who\n1,2\n")) }},
		{"malformed status", func(t *testing.T) string {
			return writeFile(t, "bad.csv", []byte("Time,IP Address,URL/Path,Status Code,Country\n10:00:00,1.1.1.1,/,OK,France\n"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			snap := newTestStore(t, rec).LoadFile(context.Background(), tt.path(t))
			require.NotNil(t, snap)
			assert.True(t, snap.Fallback)
			assert.Equal(t, 25, snap.Table.Len())

			run := rec.last()
			assert.Equal(t, OutcomeFallback, run.Outcome)
			assert.NotEmpty(t, run.Err)
			assert.Equal(t, 25, run.Records)
		})
	}
}

func TestUpload_ReplacesSnapshot(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestStore(t, rec)
	first := s.LoadFile(context.Background(), "")

	res := s.Upload(context.Background(), "new.csv", bytes.NewReader(sampleCSV(t, 40)))
	require.NoError(t, res.Err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 40, res.Records)
	assert.NotEqual(t, first.ID, res.Snapshot.ID)
	assert.Same(t, res.Snapshot, s.Current())
	assert.Equal(t, SourceUpload, s.Current().Source)
	assert.Equal(t, OutcomeLoaded, rec.last().Outcome)
}

func TestUpload_RejectedKeepsPrevious(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestStore(t, rec)
	prev := s.LoadFile(context.Background(), writeFile(t, "logs.csv", sampleCSV(t, 30)))

	res := s.Upload(context.Background(), "broken.csv", strings.NewReader("Time,IP Address,Status Code\n10:00,1.1.1.1,200\n"))
	assert.False(t, res.Accepted)

	var se *analytics.SchemaError
	require.ErrorAs(t, res.Err, &se)
	assert.Contains(t, se.Missing, analytics.ColPath)

	assert.Same(t, prev, s.Current())
	assert.Same(t, prev, res.Snapshot)

	run := rec.last()
	assert.Equal(t, OutcomeRejected, run.Outcome)
	assert.Equal(t, prev.ID, run.SnapshotID)
	assert.Zero(t, run.Records)
}

func TestUpload_RejectedWithoutPreviousFallsBack(t *testing.T) {
	s := newTestStore(t, nil)
	res := s.Upload(context.Background(), "empty.csv", strings.NewReader(""))
	assert.False(t, res.Accepted)

	var pe *analytics.ParseError
	assert.ErrorAs(t, res.Err, &pe)
	require.NotNil(t, s.Current())
	assert.True(t, s.Current().Fallback)
	assert.Equal(t, 25, res.Records)
}

func TestUpload_TooLarge(t *testing.T) {
	s := newTestStore(t, nil)
	s.maxBytes = 2048
	s.LoadFile(context.Background(), "")

	res := s.Upload(context.Background(), "big.csv", bytes.NewReader(sampleCSV(t, 500)))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, ErrTooLarge)
}

func TestUpload_Cancelled(t *testing.T) {
	s := newTestStore(t, nil)
	prev := s.LoadFile(context.Background(), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := s.Upload(ctx, "x.csv", bytes.NewReader(sampleCSV(t, 5)))
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Same(t, prev, s.Current())
}

func TestUpload_UnknownCountriesCounted(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestStore(t, rec)
	csv := "Time,IP Address,URL/Path,Status Code,Country\n" +
		"10:00:00,1.1.1.1,/demo,200,Atlantis\n" +
		"11:00:00,1.1.1.2,/demo,200,Atlantis\n" +
		"12:00:00,1.1.1.3,/demo,200,France\n"

	res := s.Upload(context.Background(), "odd.csv", strings.NewReader(csv))
	require.True(t, res.Accepted)
	assert.Equal(t, 2, rec.last().LookupFails)

	rep := analytics.Aggregate(res.Snapshot.Table)
	assert.Equal(t, 2, analytics.CountOf(rep.ContinentTotal, analytics.UnknownContinent))
}

func TestRecorderErrorDoesNotFailIngestion(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("database down")}
	s := newTestStore(t, rec)
	res := s.Upload(context.Background(), "ok.csv", bytes.NewReader(sampleCSV(t, 10)))
	assert.True(t, res.Accepted)
	assert.NoError(t, res.Err)
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := newTestStore(t, nil)
	s.LoadFile(context.Background(), "")

	sizes := []int{10, 20, 30, 40}
	payloads := make(map[int][]byte, len(sizes))
	for _, n := range sizes {
		payloads[n] = sampleCSV(t, n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				snap := s.Current()
				if snap == nil {
					t.Error("nil snapshot after load")
					return
				}
				n := snap.Table.Len()
				if !snap.Fallback && n%10 != 0 {
					t.Errorf("partial snapshot with %d records", n)
					return
				}
			}
		}()
	}

	for i := range 20 {
		n := sizes[i%len(sizes)]
		res := s.Upload(context.Background(), "u.csv", bytes.NewReader(payloads[n]))
		require.True(t, res.Accepted)
	}
	cancel()
	wg.Wait()
}

package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
	"github.com/couchcryptid/cdl-history-service/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawRequest
	index   atomic.Int64
	failN   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawRequest, error) {
	if m.failN.Load() > 0 {
		m.failN.Add(-1)
		return nil, errors.New("broker unavailable")
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawRequest) (domain.HistoryReport, error) {
	if m.err != nil {
		return domain.HistoryReport{}, m.err
	}
	return domain.HistoryReport{ID: string(raw.Key)}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.HistoryReport
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, reports []domain.HistoryReport) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, reports...)
	return nil
}

type stubSource struct{ codes map[int]int }

func (s stubSource) FetchValue(_ context.Context, _, _ float64, year int) ([]byte, error) {
	code, ok := s.codes[year]
	if !ok {
		return nil, errors.New("unavailable")
	}
	return []byte(fmt.Sprintf("<Result>%d</Result>", code)), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

func rawRequest(t *testing.T, key string, req domain.HistoryRequest) domain.RawRequest {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return domain.RawRequest{Key: []byte(key), Value: data, Topic: "cdl-history-requests"}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawRequest{
		{{Key: []byte("a")}, {Key: []byte("b")}},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, quietLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "a", ldr.loaded[0].ID)
	assert.Equal(t, "b", ldr.loaded[1].ID)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesProduced), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, quietLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_TransformErrorCommitsAndSkips(t *testing.T) {
	var commits atomic.Int32
	raw := domain.RawRequest{Key: []byte("bad"), Commit: func(context.Context) error {
		commits.Add(1)
		return nil
	}}

	ext := &mockExtractor{batches: [][]domain.RawRequest{{raw}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad data")}, ldr, quietLogger(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Equal(t, int32(1), commits.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors), 0)
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var commits atomic.Int32
	raw := domain.RawRequest{Key: []byte("ok"), Commit: func(context.Context) error {
		commits.Add(1)
		return nil
	}}

	ext := &mockExtractor{batches: [][]domain.RawRequest{{raw}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, quietLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, 300*time.Millisecond)
	assert.Equal(t, int32(1), commits.Load())
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var commits atomic.Int32
	raw := domain.RawRequest{Key: []byte("ok"), Commit: func(context.Context) error {
		commits.Add(1)
		return nil
	}}

	ext := &mockExtractor{batches: [][]domain.RawRequest{{raw}}}
	ldr := &mockLoader{err: errors.New("sink down")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, quietLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, 300*time.Millisecond)
	assert.Zero(t, commits.Load())
}

func TestPipeline_Run_RetriesAfterExtractError(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawRequest{{{Key: []byte("late")}}}}
	ext.failN.Store(1)
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, quietLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, time.Second)
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "late", ldr.loaded[0].ID)
}

func TestPipeline_CheckReadiness(t *testing.T) {
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, &mockLoader{}, quietLogger(), observability.NewMetricsForTesting(), 10)
	require.Error(t, p.CheckReadiness(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return p.CheckReadiness(context.Background()) == nil },
		time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestHistoryTransformer_Transform(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := history.NewService(stubSource{codes: map[int]int{2021: 1, 2022: 5, 2023: 1}}, 2021, 2023, metrics, quietLogger())
	tfm := pipeline.NewTransformer(svc, metrics)

	report, err := tfm.Transform(context.Background(), rawRequest(t, "field-9", domain.HistoryRequest{Lat: 41.9, Lng: -93.1}))
	require.NoError(t, err)

	assert.Equal(t, "field-9", report.ID)
	names := make([]string, len(report.Records))
	for i, r := range report.Records {
		names[i] = r.CropName
	}
	assert.Equal(t, []string{"Corn", "Soybeans", "Corn"}, names)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HistoryQueries.WithLabelValues("kafka")), 0)
}

func TestHistoryTransformer_Transform_Errors(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := history.NewService(stubSource{}, 2021, 2023, metrics, quietLogger())
	tfm := pipeline.NewTransformer(svc, metrics)

	_, err := tfm.Transform(context.Background(), domain.RawRequest{Value: []byte("not json")})
	require.Error(t, err)

	_, err = tfm.Transform(context.Background(), rawRequest(t, "k", domain.HistoryRequest{Lat: 95, Lng: 0}))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = tfm.Transform(context.Background(), domain.RawRequest{Value: []byte(`{"lat": 40, "lng": -90, "end_year": 1000000000}`)})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// A realistic batch run end to end: valid requests become reports, a poison
// message is skipped, and every message is committed exactly once.
func TestPipeline_EndToEndWithHistoryService(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	src := stubSource{codes: map[int]int{2020: 1, 2021: 1, 2022: 75, 2023: 1}}
	svc := history.NewService(src, 2020, 2023, metrics, quietLogger())

	var mu sync.Mutex
	committed := map[string]int{}
	withCommit := func(r domain.RawRequest) domain.RawRequest {
		key := string(r.Key)
		r.Commit = func(context.Context) error {
			mu.Lock()
			committed[key]++
			mu.Unlock()
			return nil
		}
		return r
	}

	batch := []domain.RawRequest{
		withCommit(rawRequest(t, "orchard", domain.HistoryRequest{Lat: 36.7, Lng: -119.8})),
		withCommit(domain.RawRequest{Key: []byte("poison"), Value: []byte("{")}),
		withCommit(rawRequest(t, "recent", domain.HistoryRequest{Lat: 36.7, Lng: -119.8, StartYear: 2022})),
	}

	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawRequest{batch}}, pipeline.NewTransformer(svc, metrics), ldr, quietLogger(), metrics, 10)
	runFor(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "orchard", ldr.loaded[0].ID)
	assert.Len(t, ldr.loaded[0].Records, 4)
	assert.Equal(t, "recent", ldr.loaded[1].ID)
	assert.Len(t, ldr.loaded[1].Records, 2)

	want := map[string]int{"orchard": 1, "poison": 1, "recent": 1}
	if diff := cmp.Diff(want, committed, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("commits mismatch (-want +got):\n%s", diff)
	}
}

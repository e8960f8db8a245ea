package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/schema"
)

type stubStream struct {
	connected bool
}

func (s *stubStream) Connect(ctx context.Context) error   { s.connected = true; return nil }
func (s *stubStream) Subscribe(ctx context.Context) error { return nil }
func (s *stubStream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	return make(chan *models.Quote), make(chan error)
}
func (s *stubStream) Reconnect(ctx context.Context) error { return nil }
func (s *stubStream) Close() error                        { s.connected = false; return nil }
func (s *stubStream) IsConnected() bool                   { return s.connected }

type nopMetrics struct{}

func (nopMetrics) RecordAssessment(string, models.RiskTier) {}
func (nopMetrics) RecordProbability(string, float64)        {}
func (nopMetrics) RecordError(string)                       {}
func (nopMetrics) RecordLatency(string, float64)            {}

// flakyStream fails its first read session and delivers a quote after
// the reconnect.
type flakyStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
	connected  bool
}

func (s *flakyStream) Connect(ctx context.Context) error   { s.connected = true; return nil }
func (s *flakyStream) Subscribe(ctx context.Context) error { return nil }

func (s *flakyStream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	s.mu.Lock()
	s.reads++
	first := s.reads == 1
	s.mu.Unlock()

	quotes := make(chan *models.Quote, 1)
	errs := make(chan error, 1)
	if first {
		errs <- errors.New("connection reset")
		close(errs)
		close(quotes)
		return quotes, errs
	}
	quotes <- &models.Quote{Symbol: "^VIX", Price: 31.0, Timestamp: 1700000000}
	return quotes, errs
}

func (s *flakyStream) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	s.reconnects++
	s.mu.Unlock()
	return nil
}

func (s *flakyStream) Close() error      { s.connected = false; return nil }
func (s *flakyStream) IsConnected() bool { return s.connected }

func TestCollectorResumesAfterReconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &flakyStream{}
	c := NewQuoteCollector(stream, nopMetrics{}, nil, schema.Default())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := c.Snapshot().Value("VIX"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no quote consumed after reconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.reconnects == 0 {
		t.Fatalf("stream error must trigger a reconnect")
	}
	if stream.reads < 2 {
		t.Fatalf("reconnect must re-open the read channels, reads=%d", stream.reads)
	}
}

func TestCollectorMapsProviderSymbols(t *testing.T) {
	c := NewQuoteCollector(&stubStream{}, nopMetrics{}, nil, schema.Default())

	if err := c.Process(context.Background(), &models.Quote{Symbol: "^VIX", Price: 23.5, Timestamp: 1700000000}); err != nil {
		t.Fatalf("process: %v", err)
	}

	set := c.Snapshot()
	v, ok := set.Value("VIX")
	if !ok {
		t.Fatalf("VIX should be set after a ^VIX quote")
	}
	if v != 23.5 {
		t.Fatalf("VIX = %v, want 23.5", v)
	}
	if _, ok := c.LastUpdated("VIX"); !ok {
		t.Fatalf("last update time should be recorded")
	}
}

func TestCollectorIgnoresUnknownSymbols(t *testing.T) {
	c := NewQuoteCollector(&stubStream{}, nopMetrics{}, nil, schema.Default())

	if err := c.Process(context.Background(), &models.Quote{Symbol: "AAPL", Price: 190}); err != nil {
		t.Fatalf("unknown symbols are dropped, not errors: %v", err)
	}
	if c.Snapshot().Len() != 0 {
		t.Fatalf("unknown symbol must not enter the snapshot")
	}
}

func TestCollectorSnapshotIsDetached(t *testing.T) {
	c := NewQuoteCollector(&stubStream{}, nopMetrics{}, nil, schema.Default())
	_ = c.Process(context.Background(), &models.Quote{Symbol: "JPY=X", Price: 148.2})

	snap := c.Snapshot()
	_ = c.Process(context.Background(), &models.Quote{Symbol: "JPY=X", Price: 150.0})

	v, _ := snap.Value("JPY")
	if v != 148.2 {
		t.Fatalf("snapshot mutated by later quote: %v", v)
	}
}

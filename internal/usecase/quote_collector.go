package usecase

import (
	"context"
	"sync"
	"time"

	"Cassandra/internal/domain/models"
	drepo "Cassandra/internal/domain/repository"
	"Cassandra/internal/domain/schema"
	mid "Cassandra/internal/middleware"
)

// QuoteCollector consumes the live quote stream and maintains the most
// recent value per schema indicator. A provider symbol that never
// arrives simply stays unset; the assessment then reports the missing
// indicator instead of defaulting it.
type QuoteCollector struct {
	stream  drepo.QuoteStream
	metrics drepo.Metrics
	pipe    *mid.QuotePipeline

	symbolToName map[string]string

	mu      sync.RWMutex
	latest  map[string]float64
	updated map[string]time.Time
}

// NewQuoteCollector creates a collector for the schema's provider symbols.
func NewQuoteCollector(stream drepo.QuoteStream, metrics drepo.Metrics, pipe *mid.QuotePipeline, sc *schema.Schema) *QuoteCollector {
	symbolToName := make(map[string]string)
	for _, ind := range sc.Indicators {
		if ind.ProviderSymbol != "" {
			symbolToName[ind.ProviderSymbol] = ind.Name
		}
	}
	c := &QuoteCollector{
		stream:       stream,
		metrics:      metrics,
		pipe:         pipe,
		symbolToName: symbolToName,
		latest:       make(map[string]float64),
		updated:      make(map[string]time.Time),
	}
	if pipe != nil {
		pipe.Bind(c)
	}
	return c
}

// IsConnected returns true if the quote stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			// The stream closes both channels after a read failure;
			// they never carry data again, so a fresh Read is needed
			// once the reconnect succeeds.
			if !ok || err != nil {
				c.metrics.RecordError("stream")
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					select {
					case <-ctx.Done():
						return
					case <-time.After(time.Second):
					}
					continue
				}
				qCh, errCh = c.stream.Read(ctx)
			}
		case q, ok := <-qCh:
			if !ok {
				// blocks this case until a reconnect swaps the channel
				qCh = nil
				continue
			}
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.Process(ctx, q)
			}
		}
	}
}

// Process records a quote in the latest-value table. It is the
// pipeline's downstream stage.
func (c *QuoteCollector) Process(_ context.Context, q *models.Quote) error {
	name, ok := c.symbolToName[q.Symbol]
	if !ok {
		c.metrics.RecordError("unknown_symbol")
		return nil
	}
	c.mu.Lock()
	c.latest[name] = q.Price
	c.updated[name] = time.Unix(q.Timestamp, 0)
	c.mu.Unlock()
	return nil
}

// Snapshot returns an IndicatorSet of the values collected so far.
// Indicators with no quote yet are left unset.
func (c *QuoteCollector) Snapshot() models.IndicatorSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.NewIndicatorSet(c.latest)
}

// LastUpdated reports when the named indicator last received a quote.
func (c *QuoteCollector) LastUpdated(name string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.updated[name]
	return t, ok
}

// Shutdown stops the pipeline and closes the stream.
func (c *QuoteCollector) Shutdown(_ context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}

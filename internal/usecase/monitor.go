package usecase

import (
	"context"
	"errors"
	"time"

	"Cassandra/internal/domain/models"
	drepo "Cassandra/internal/domain/repository"
	"Cassandra/internal/domain/risk"
	applogger "Cassandra/pkg/logger"
)

// Monitor periodically assesses the live snapshot and routes the result
// to the configured backend. Until the collector has seen every required
// indicator the assessment fails with a missing indicator; that is
// expected during warmup and logged at debug level only.
type Monitor struct {
	assessor        *Assessor
	collector       *QuoteCollector
	processor       *AssessmentProcessor
	metrics         drepo.Metrics
	logger          *applogger.Logger
	interval        time.Duration
	allowOutOfRange bool
}

func NewMonitor(
	assessor *Assessor,
	collector *QuoteCollector,
	processor *AssessmentProcessor,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	interval time.Duration,
	allowOutOfRange bool,
) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{
		assessor:        assessor,
		collector:       collector,
		processor:       processor,
		metrics:         metrics,
		logger:          logger,
		interval:        interval,
		allowOutOfRange: allowOutOfRange,
	}
}

// Run blocks until ctx is cancelled, assessing on each tick.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	set := m.collector.Snapshot()

	a, err := m.assessor.Assess(ctx, set, models.SourceLive, m.allowOutOfRange)
	if err != nil {
		if errors.Is(err, risk.ErrMissingIndicator) {
			// collector warmup; nothing to alert on yet
			m.logger.Debug("live snapshot incomplete", applogger.Error(err))
			return
		}
		m.metrics.RecordError("monitor_" + string(risk.KindOf(err)))
		m.logger.Error("live assessment failed", applogger.Error(err))
		return
	}

	if err := m.processor.Process(ctx, a); err != nil {
		m.logger.Error("assessment routing failed", applogger.Error(err))
	}
	if a.Tier == models.TierHigh {
		m.logger.Warn("high crash risk",
			applogger.Any("probability", a.Probability),
			applogger.String("recommendation", a.Recommendation))
	}
}

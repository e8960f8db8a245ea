package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/repository"
	pkgkafka "Cassandra/pkg/kafka"
)

// ClickHouseAssessmentStore implements AssessmentStore for ClickHouse.
// Features are stored as a JSON string column so history rows carry the
// exact vector that produced the probability.
type ClickHouseAssessmentStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseAssessmentStore creates ClickHouse-backed history storage.
func NewClickHouseAssessmentStore(db *sql.DB, table string) repository.AssessmentStore {
	return &ClickHouseAssessmentStore{db: db, table: table}
}

// initStatements returns the idempotent DDL for the history table. The
// database part of a qualified table name gets its own CREATE so a
// fresh ClickHouse works without manual setup.
func (s *ClickHouseAssessmentStore) initStatements() []string {
	var stmts []string
	if db, _, ok := strings.Cut(s.table, "."); ok {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db))
	}
	stmts = append(stmts, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (ts DateTime, source String, schema_version String, probability Float64, tier String, recommendation String, features String, warnings String) ENGINE=MergeTree ORDER BY ts",
		s.table,
	))
	return stmts
}

// Init creates the history table if it does not exist yet.
func (s *ClickHouseAssessmentStore) Init(ctx context.Context) error {
	for _, q := range s.initStatements() {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init assessments table: %w", err)
		}
	}
	return nil
}

func assessmentArgs(a *models.Assessment) ([]interface{}, error) {
	features, err := json.Marshal(a.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}
	warnings, err := json.Marshal(a.Warnings)
	if err != nil {
		return nil, fmt.Errorf("marshal warnings: %w", err)
	}
	return []interface{}{
		a.Timestamp,
		a.Source,
		a.SchemaVersion,
		a.Probability,
		string(a.Tier),
		a.Recommendation,
		string(features),
		string(warnings),
	}, nil
}

func (s *ClickHouseAssessmentStore) Store(ctx context.Context, a *models.Assessment) error {
	args, err := assessmentArgs(a)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, source, schema_version, probability, tier, recommendation, features, warnings) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *ClickHouseAssessmentStore) StoreBatch(ctx context.Context, as []*models.Assessment) error {
	if len(as) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips.
	const chunkSize = 500
	for start := 0; start < len(as); start += chunkSize {
		end := start + chunkSize
		if end > len(as) {
			end = len(as)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, a := range as[start:end] {
			if a == nil {
				continue
			}
			rowArgs, err := assessmentArgs(a)
			if err != nil {
				return err
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, rowArgs...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, source, schema_version, probability, tier, recommendation, features, warnings) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseAssessmentStore) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.Assessment, error) {
	q := fmt.Sprintf("SELECT ts, source, schema_version, probability, tier, recommendation, features, warnings FROM %s WHERE ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Assessment
	for rows.Next() {
		var a models.Assessment
		var tier, features, warnings string
		if err := rows.Scan(&a.Timestamp, &a.Source, &a.SchemaVersion, &a.Probability, &tier, &a.Recommendation, &features, &warnings); err != nil {
			return nil, err
		}
		a.Tier = models.RiskTier(tier)
		if err := json.Unmarshal([]byte(features), &a.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
		if warnings != "" && warnings != "null" {
			if err := json.Unmarshal([]byte(warnings), &a.Warnings); err != nil {
				return nil, fmt.Errorf("unmarshal warnings: %w", err)
			}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *ClickHouseAssessmentStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseAssessmentStore) Close() error {
	return nil // Managed by pkg
}

// KafkaAssessmentPublisher implements Publisher for Kafka.
type KafkaAssessmentPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAssessmentPublisher creates a Kafka publisher.
func NewKafkaAssessmentPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaAssessmentPublisher{producer: producer, topic: topic}
}

func (p *KafkaAssessmentPublisher) Publish(ctx context.Context, a *models.Assessment) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Source), a)
}

func (p *KafkaAssessmentPublisher) PublishBatch(ctx context.Context, as []*models.Assessment) error {
	if len(as) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(as))
	for i, a := range as {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.Source),
			Value: a,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAssessmentPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

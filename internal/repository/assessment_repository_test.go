package repository

import (
	"strings"
	"testing"
)

func TestInitStatementsCreateDatabaseAndTable(t *testing.T) {
	s := &ClickHouseAssessmentStore{table: "cassandra.assessments"}

	stmts := s.initStatements()
	if len(stmts) != 2 {
		t.Fatalf("expected database + table DDL, got %d statements: %v", len(stmts), stmts)
	}
	if stmts[0] != "CREATE DATABASE IF NOT EXISTS cassandra" {
		t.Fatalf("unexpected database DDL: %s", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE TABLE IF NOT EXISTS cassandra.assessments") {
		t.Fatalf("unexpected table DDL: %s", stmts[1])
	}
	for _, col := range []string{"ts", "source", "schema_version", "probability", "tier", "recommendation", "features", "warnings"} {
		if !strings.Contains(stmts[1], col) {
			t.Fatalf("table DDL missing column %s: %s", col, stmts[1])
		}
	}
}

func TestInitStatementsAreIdempotent(t *testing.T) {
	s := &ClickHouseAssessmentStore{table: "assessments"}

	stmts := s.initStatements()
	if len(stmts) != 1 {
		t.Fatalf("unqualified table needs no database DDL, got %v", stmts)
	}
	for _, q := range stmts {
		if !strings.Contains(q, "IF NOT EXISTS") {
			t.Fatalf("DDL must be rerunnable: %s", q)
		}
	}
}

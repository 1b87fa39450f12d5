package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS actors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK(role IN ('agency_user','agency_approver','reviewer','approver','admin')),
		agency_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS planning_entities (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL CHECK(kind IN ('project','work_programme','procurement_plan')),
		agency_id TEXT NOT NULL,
		fiscal_year_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_fiscal_year ON planning_entities(fiscal_year_id, agency_id)`,

	// Money is decimal TEXT; monthly and quarterly vectors are JSON arrays.
	`CREATE TABLE IF NOT EXISTS budget_lines (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL REFERENCES planning_entities(id) ON DELETE CASCADE,
		item_number TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		original_budget TEXT NOT NULL DEFAULT '0',
		revised_budget TEXT NOT NULL DEFAULT '0',
		cashflow TEXT NOT NULL DEFAULT '[]',
		seq INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_lines_entity ON budget_lines(entity_id)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL REFERENCES planning_entities(id) ON DELETE CASCADE,
		item_number TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		output TEXT NOT NULL DEFAULT '',
		quarters TEXT NOT NULL DEFAULT '[]',
		total_budget TEXT NOT NULL DEFAULT '0',
		seq INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_entity ON activities(entity_id)`,

	`CREATE TABLE IF NOT EXISTS procurement_items (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL REFERENCES planning_entities(id) ON DELETE CASCADE,
		item_number TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		method TEXT NOT NULL DEFAULT '',
		quarters TEXT NOT NULL DEFAULT '[]',
		annual_budget_year_value TEXT NOT NULL DEFAULT '0',
		seq INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_procurement_items_entity ON procurement_items(entity_id)`,

	`CREATE TABLE IF NOT EXISTS workflow_actions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		entity_id TEXT NOT NULL REFERENCES planning_entities(id),
		type TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_actions_entity ON workflow_actions(entity_id, seq)`,

	// The audit trail is append-only.
	`CREATE TRIGGER IF NOT EXISTS workflow_actions_no_update
		BEFORE UPDATE ON workflow_actions
		BEGIN SELECT RAISE(ABORT, 'workflow_actions is append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS workflow_actions_no_delete
		BEFORE DELETE ON workflow_actions
		BEGIN SELECT RAISE(ABORT, 'workflow_actions is append-only'); END`,
}

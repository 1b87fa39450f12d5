package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteLineItemRepo stores the three line item variants, one table each.
type SQLiteLineItemRepo struct {
	db db.DBTX
}

func NewSQLiteLineItemRepo(conn db.DBTX) *SQLiteLineItemRepo {
	return &SQLiteLineItemRepo{db: conn}
}

var lineTables = map[domain.EntityKind]string{
	domain.KindProject:         "budget_lines",
	domain.KindWorkProgramme:   "activities",
	domain.KindProcurementPlan: "procurement_items",
}

// quarterRow is the stored form of domain.QuarterFigures.
type quarterRow struct {
	Target decimal.Decimal `json:"target"`
	Actual decimal.Decimal `json:"actual"`
	Budget decimal.Decimal `json:"budget"`
}

func nextSeq(table string) string {
	return `(SELECT COALESCE(MAX(seq), 0) + 1 FROM ` + table + ` WHERE entity_id = ?)`
}

func (r *SQLiteLineItemRepo) CreateBudgetLine(ctx context.Context, l *domain.BudgetLine) error {
	cashflow, err := vectorToJSON(l.Cashflow)
	if err != nil {
		return err
	}
	query := `INSERT INTO budget_lines (id, entity_id, item_number, description, original_budget, revised_budget, cashflow, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + nextSeq("budget_lines") + `)`
	_, err = r.db.ExecContext(ctx, query,
		l.ID, l.EntityID, l.ItemNumber, l.Description,
		decimalToText(l.OriginalBudget), decimalToText(l.RevisedBudget), cashflow,
		l.EntityID,
	)
	if err != nil {
		return fmt.Errorf("inserting budget line: %w", err)
	}
	return nil
}

func (r *SQLiteLineItemRepo) UpdateBudgetLine(ctx context.Context, l *domain.BudgetLine) error {
	cashflow, err := vectorToJSON(l.Cashflow)
	if err != nil {
		return err
	}
	query := `UPDATE budget_lines SET item_number = ?, description = ?, original_budget = ?, revised_budget = ?, cashflow = ?
		WHERE id = ? AND entity_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.ItemNumber, l.Description,
		decimalToText(l.OriginalBudget), decimalToText(l.RevisedBudget), cashflow,
		l.ID, l.EntityID,
	)
	return checkUpdated(res, err, "budget line", l.ID)
}

func (r *SQLiteLineItemRepo) CreateActivity(ctx context.Context, a *domain.Activity) error {
	quarters, err := vectorToJSON(toQuarterRows(a.Quarters))
	if err != nil {
		return err
	}
	query := `INSERT INTO activities (id, entity_id, item_number, description, output, quarters, total_budget, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + nextSeq("activities") + `)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.EntityID, a.ItemNumber, a.Description, a.Output,
		quarters, decimalToText(a.TotalBudget),
		a.EntityID,
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteLineItemRepo) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	quarters, err := vectorToJSON(toQuarterRows(a.Quarters))
	if err != nil {
		return err
	}
	query := `UPDATE activities SET item_number = ?, description = ?, output = ?, quarters = ?, total_budget = ?
		WHERE id = ? AND entity_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.ItemNumber, a.Description, a.Output, quarters, decimalToText(a.TotalBudget),
		a.ID, a.EntityID,
	)
	return checkUpdated(res, err, "activity", a.ID)
}

func (r *SQLiteLineItemRepo) CreateProcurementItem(ctx context.Context, p *domain.ProcurementItem) error {
	quarters, err := vectorToJSON(p.Quarters)
	if err != nil {
		return err
	}
	query := `INSERT INTO procurement_items (id, entity_id, item_number, description, method, quarters, annual_budget_year_value, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + nextSeq("procurement_items") + `)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.EntityID, p.ItemNumber, p.Description, p.Method,
		quarters, decimalToText(p.AnnualBudgetYearValue),
		p.EntityID,
	)
	if err != nil {
		return fmt.Errorf("inserting procurement item: %w", err)
	}
	return nil
}

func (r *SQLiteLineItemRepo) UpdateProcurementItem(ctx context.Context, p *domain.ProcurementItem) error {
	quarters, err := vectorToJSON(p.Quarters)
	if err != nil {
		return err
	}
	query := `UPDATE procurement_items SET item_number = ?, description = ?, method = ?, quarters = ?, annual_budget_year_value = ?
		WHERE id = ? AND entity_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ItemNumber, p.Description, p.Method, quarters, decimalToText(p.AnnualBudgetYearValue),
		p.ID, p.EntityID,
	)
	return checkUpdated(res, err, "procurement item", p.ID)
}

func (r *SQLiteLineItemRepo) Delete(ctx context.Context, ref LineRef) error {
	table, ok := lineTables[ref.Kind]
	if !ok {
		return fmt.Errorf("line kind %q: %w", ref.Kind, domain.ErrInvalidArgument)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND entity_id = ?`, ref.ID, ref.EntityID)
	return checkUpdated(res, err, "line item", ref.ID)
}

// Locate finds which entity, and therefore which table, owns a line item.
func (r *SQLiteLineItemRepo) Locate(ctx context.Context, lineID string) (*LineRef, error) {
	query := `SELECT l.entity_id, e.kind FROM (
			SELECT id, entity_id FROM budget_lines WHERE id = ?
			UNION ALL SELECT id, entity_id FROM activities WHERE id = ?
			UNION ALL SELECT id, entity_id FROM procurement_items WHERE id = ?
		) l JOIN planning_entities e ON e.id = l.entity_id`
	ref := LineRef{ID: lineID}
	var kind string
	err := r.db.QueryRowContext(ctx, query, lineID, lineID, lineID).Scan(&ref.EntityID, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("line item %s: %w", lineID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("locating line item: %w", err)
	}
	ref.Kind = domain.EntityKind(kind)
	return &ref, nil
}

func (r *SQLiteLineItemRepo) ListByEntity(ctx context.Context, entityID string) (Lines, error) {
	m, err := r.ListByEntities(ctx, []string{entityID})
	if err != nil {
		return Lines{}, err
	}
	return m[entityID], nil
}

// ListByEntities loads the lines of many entities with one query per table.
func (r *SQLiteLineItemRepo) ListByEntities(ctx context.Context, entityIDs []string) (map[string]Lines, error) {
	out := make(map[string]Lines, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}
	in, args := inClause(entityIDs)

	if err := r.eachRow(ctx, `SELECT id, entity_id, item_number, description, original_budget, revised_budget, cashflow
		FROM budget_lines WHERE entity_id IN (`+in+`) ORDER BY entity_id, seq`, args, func(row rowScanner) error {
		l, err := scanBudgetLine(row)
		if err != nil {
			return err
		}
		lines := out[l.EntityID]
		lines.BudgetLines = append(lines.BudgetLines, *l)
		out[l.EntityID] = lines
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}

	if err := r.eachRow(ctx, `SELECT id, entity_id, item_number, description, output, quarters, total_budget
		FROM activities WHERE entity_id IN (`+in+`) ORDER BY entity_id, seq`, args, func(row rowScanner) error {
		a, err := scanActivity(row)
		if err != nil {
			return err
		}
		lines := out[a.EntityID]
		lines.Activities = append(lines.Activities, *a)
		out[a.EntityID] = lines
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	if err := r.eachRow(ctx, `SELECT id, entity_id, item_number, description, method, quarters, annual_budget_year_value
		FROM procurement_items WHERE entity_id IN (`+in+`) ORDER BY entity_id, seq`, args, func(row rowScanner) error {
		p, err := scanProcurementItem(row)
		if err != nil {
			return err
		}
		lines := out[p.EntityID]
		lines.ProcurementItems = append(lines.ProcurementItems, *p)
		out[p.EntityID] = lines
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing procurement items: %w", err)
	}

	return out, nil
}

func (r *SQLiteLineItemRepo) eachRow(ctx context.Context, query string, args []any, fn func(rowScanner) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanBudgetLine(row rowScanner) (*domain.BudgetLine, error) {
	var l domain.BudgetLine
	var original, revised, cashflow string
	if err := row.Scan(&l.ID, &l.EntityID, &l.ItemNumber, &l.Description, &original, &revised, &cashflow); err != nil {
		return nil, fmt.Errorf("scanning budget line: %w", err)
	}
	var err error
	if l.OriginalBudget, err = parseDecimal(original, "original_budget"); err != nil {
		return nil, err
	}
	if l.RevisedBudget, err = parseDecimal(revised, "revised_budget"); err != nil {
		return nil, err
	}
	if err := parseVector(cashflow, "cashflow", &l.Cashflow); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var quarters, total string
	if err := row.Scan(&a.ID, &a.EntityID, &a.ItemNumber, &a.Description, &a.Output, &quarters, &total); err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	var qs [4]quarterRow
	if err := parseVector(quarters, "quarters", &qs); err != nil {
		return nil, err
	}
	for i, q := range qs {
		a.Quarters[i] = domain.QuarterFigures{Target: q.Target, Actual: q.Actual, Budget: q.Budget}
	}
	var err error
	if a.TotalBudget, err = parseDecimal(total, "total_budget"); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanProcurementItem(row rowScanner) (*domain.ProcurementItem, error) {
	var p domain.ProcurementItem
	var quarters, annual string
	if err := row.Scan(&p.ID, &p.EntityID, &p.ItemNumber, &p.Description, &p.Method, &quarters, &annual); err != nil {
		return nil, fmt.Errorf("scanning procurement item: %w", err)
	}
	if err := parseVector(quarters, "quarters", &p.Quarters); err != nil {
		return nil, err
	}
	var err error
	if p.AnnualBudgetYearValue, err = parseDecimal(annual, "annual_budget_year_value"); err != nil {
		return nil, err
	}
	return &p, nil
}

func toQuarterRows(q [4]domain.QuarterFigures) [4]quarterRow {
	var out [4]quarterRow
	for i, f := range q {
		out[i] = quarterRow{Target: f.Target, Actual: f.Actual, Budget: f.Budget}
	}
	return out
}

// checkUpdated maps a zero-row UPDATE or DELETE to ErrNotFound.
func checkUpdated(res sql.Result, err error, what, id string) error {
	if err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

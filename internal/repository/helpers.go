package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout keeps sub-second precision so updated_at works as a version stamp.
const timeLayout = time.RFC3339Nano

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// decimalToText stores money as its exact decimal string.
func decimalToText(d decimal.Decimal) string {
	return d.String()
}

func parseDecimal(s, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", column, err)
	}
	return d, nil
}

// vectorToJSON encodes a fixed-size monthly or quarterly vector.
func vectorToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding vector: %w", err)
	}
	return string(b), nil
}

func parseVector(s, column string, dst any) error {
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("parsing %s: %w", column, err)
	}
	return nil
}

// inClause returns "?, ?, ?" and the args for an IN list over ids.
func inClause(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), args
}

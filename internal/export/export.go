// Package export builds the SQL seed file used to load a development
// snapshot into another database. The emitted statements are idempotent:
// identity tables upsert on id, append-only tables insert-or-skip.
package export

import (
	"fmt"
	"strings"
	"time"
)

// ConflictAction selects what an insert does when the row already exists.
type ConflictAction int

const (
	// OnConflictUpdate rewrites every non-key column from the new row.
	OnConflictUpdate ConflictAction = iota
	// OnConflictNothing leaves the existing row alone.
	OnConflictNothing
)

// Literal renders one value as a SQL literal. Strings are single-quoted with
// quotes doubled; times render as timestamptz literals; nil renders NULL.
func Literal(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case *string:
		if x == nil {
			return "NULL"
		}
		return Literal(*x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", x)
	case *int:
		if x == nil {
			return "NULL"
		}
		return fmt.Sprintf("%d", *x)
	case int64:
		return fmt.Sprintf("%d", x)
	case *int64:
		if x == nil {
			return "NULL"
		}
		return fmt.Sprintf("%d", *x)
	case float64:
		return fmt.Sprintf("%g", x)
	case *float64:
		if x == nil {
			return "NULL"
		}
		return fmt.Sprintf("%g", *x)
	case time.Time:
		return "'" + x.UTC().Format("2006-01-02 15:04:05.999999-07") + "'"
	case *time.Time:
		if x == nil {
			return "NULL"
		}
		return Literal(*x)
	case []byte:
		return "'" + strings.ReplaceAll(string(x), "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", x), "'", "''") + "'"
	}
}

// InsertStatement renders one INSERT with an ON CONFLICT clause keyed on the
// first column (the id).
func InsertStatement(table string, columns []string, values []interface{}, action ConflictAction) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = Literal(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(lits, ", "))

	switch action {
	case OnConflictNothing:
		b.WriteString(" ON CONFLICT DO NOTHING;")
	case OnConflictUpdate:
		sets := make([]string, 0, len(columns)-1)
		for _, col := range columns[1:] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO UPDATE SET %s;", columns[0], strings.Join(sets, ", "))
	}
	return b.String()
}

// File assembles statements into a single transactional script.
func File(statements []string) string {
	var b strings.Builder
	b.WriteString("BEGIN;\n\n")
	for _, s := range statements {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString("\nCOMMIT;\n")
	return b.String()
}

// SequenceReset emits a setval so newly inserted rows do not collide with
// the seeded ids.
func SequenceReset(table string) string {
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1));", table, table)
}

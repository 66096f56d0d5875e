package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLiteral(t *testing.T) {
	s := "it's fine"
	n := 42
	f := 3.5
	ts := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "NULL"},
		{"string with quote", "it's fine", "'it''s fine'"},
		{"string pointer", &s, "'it''s fine'"},
		{"nil string pointer", (*string)(nil), "NULL"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"int pointer", &n, "42"},
		{"int64 from a db scan", int64(42), "42"},
		{"nil int64 pointer", (*int64)(nil), "NULL"},
		{"nil int pointer", (*int)(nil), "NULL"},
		{"float", 3.5, "3.5"},
		{"float pointer", &f, "3.5"},
		{"time", ts, "'2026-03-10 12:30:00+00'"},
		{"time pointer", &ts, "'2026-03-10 12:30:00+00'"},
		{"nil time pointer", (*time.Time)(nil), "NULL"},
		{"bytes", []byte(`{"a":1}`), `'{"a":1}'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.in))
		})
	}
}

func TestInsertStatementUpdate(t *testing.T) {
	got := InsertStatement("users",
		[]string{"id", "email", "is_admin"},
		[]interface{}{1, "a@b.com", false},
		OnConflictUpdate)

	want := "INSERT INTO users (id, email, is_admin) VALUES (1, 'a@b.com', false)" +
		" ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, is_admin = EXCLUDED.is_admin;"
	assert.Equal(t, want, got)
}

func TestInsertStatementNothing(t *testing.T) {
	got := InsertStatement("group_memberships",
		[]string{"id", "group_id", "user_id"},
		[]interface{}{7, 2, 3},
		OnConflictNothing)

	assert.Equal(t, "INSERT INTO group_memberships (id, group_id, user_id) VALUES (7, 2, 3) ON CONFLICT DO NOTHING;", got)
}

func TestFileWrapsInTransaction(t *testing.T) {
	out := File([]string{"INSERT INTO users (id) VALUES (1);"})

	assert.True(t, strings.HasPrefix(out, "BEGIN;\n"))
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
	assert.Contains(t, out, "INSERT INTO users (id) VALUES (1);")
}

func TestSequenceReset(t *testing.T) {
	got := SequenceReset("tasks")
	assert.Contains(t, got, "pg_get_serial_sequence('tasks', 'id')")
	assert.Contains(t, got, "SELECT MAX(id) FROM tasks")
}

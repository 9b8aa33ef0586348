package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
)

// settings is the key/value table that backs the session.
type settings struct {
	db dbx.DBTX
}

// put upserts all values in one statement, in key order.
func (s settings) put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]string, 0, len(keys))
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		rows = append(rows, "(?, ?)")
		args = append(args, k, []byte(values[k]))
	}

	query := `INSERT INTO metadata (key, value) VALUES ` + strings.Join(rows, ", ") +
		` ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s settings) all(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = string(v)
	}
	return out, rows.Err()
}

func (s settings) purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}

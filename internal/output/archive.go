package output

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"boca-cli/internal/access"
	"boca-cli/pkg/migrations"
)

//go:embed schema.sql
var schema string

// Archive appends the result of every invocation to an SQLite database.
type Archive struct {
	db *sql.DB
}

func OpenArchive(ctx context.Context, path string) (Archive, error) {
	db, err := migrations.OpenAndMigrateDB(ctx, schema, path)
	if err != nil {
		return Archive{}, fmt.Errorf("open archive: %w", err)
	}
	return Archive{db: db}, nil
}

func (a Archive) Close() error {
	return a.db.Close()
}

func (a Archive) Append(ctx context.Context, r Record) error {
	encoded, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = a.db.ExecContext(
		ctx,
		"insert into result(method, username, created_at, result_json) values (?, ?, ?, ?)",
		string(r.Method), r.Username, r.At.Unix(), string(encoded),
	)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// ArchivedResult is an archived row, Value holds the raw JSON.
type ArchivedResult struct {
	Id        int64
	Method    access.Method
	Username  string
	CreatedAt time.Time
	Value     json.RawMessage
}

// Recent returns up to limit results of method, newest first. An empty
// method matches every method.
func (a Archive) Recent(ctx context.Context, method access.Method, limit int) ([]ArchivedResult, error) {
	rows, err := a.db.QueryContext(
		ctx,
		`select id, method, username, created_at, result_json from result
		where ? = '' or method = ?
		order by created_at desc, id desc
		limit ?`,
		string(method), string(method), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ArchivedResult
	for rows.Next() {
		var (
			r         ArchivedResult
			name      string
			createdAt int64
			value     string
		)
		err = rows.Scan(&r.Id, &name, &r.Username, &createdAt, &value)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Method = access.Method(name)
		r.CreatedAt = time.Unix(createdAt, 0)
		r.Value = json.RawMessage(value)
		out = append(out, r)
	}
	return out, rows.Err()
}

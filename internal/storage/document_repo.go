package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownTable is returned for a table name outside the LEGI schema.
	ErrUnknownTable = errors.New("unknown table")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocumentRepo provides methods for the four document tables.
type DocumentRepo struct {
	db DBTX
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db DBTX) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func checkTable(table string) error {
	if _, ok := documentColumns[table]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

// GetState returns the version clock of a document.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetState(ctx context.Context, table, id string) (*DocumentState, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	var state DocumentState
	err := r.db.QueryRowContext(ctx,
		"SELECT dossier, cid, mtime FROM "+table+" WHERE id = ?",
		id,
	).Scan(&state.Dossier, &state.CID, &state.MTime)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s state: %w", table, err)
	}

	return &state, nil
}

// Get returns a full document row. Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) Get(ctx context.Context, table, id string) (*Document, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	cols := documentColumns[table]

	doc := &Document{Table: table, ID: id, Attrs: make(map[string]string)}
	values := make([]sql.NullString, len(cols))
	dest := []any{&doc.Dossier, &doc.CID, &doc.MTime}
	for i := range values {
		dest = append(dest, &values[i])
	}

	err := r.db.QueryRowContext(ctx,
		"SELECT dossier, cid, mtime, "+strings.Join(cols, ", ")+" FROM "+table+" WHERE id = ?",
		id,
	).Scan(dest...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}

	for i, c := range cols {
		if values[i].Valid {
			doc.Attrs[c] = values[i].String
		}
	}
	return doc, nil
}

// attrValues orders doc.Attrs by the table's columns, rejecting unknown keys.
func attrValues(doc *Document) ([]any, error) {
	cols := documentColumns[doc.Table]
	known := make(map[string]bool, len(cols))
	values := make([]any, len(cols))
	for i, c := range cols {
		known[c] = true
		values[i] = nullString(doc.Attrs[c])
	}
	for k := range doc.Attrs {
		if !known[k] {
			return nil, fmt.Errorf("unknown column %q for table %s", k, doc.Table)
		}
	}
	return values, nil
}

// Insert inserts a new document row.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	if err := checkTable(doc.Table); err != nil {
		return err
	}
	values, err := attrValues(doc)
	if err != nil {
		return err
	}

	cols := append([]string{"id", "dossier", "cid", "mtime"}, documentColumns[doc.Table]...)
	args := append([]any{doc.ID, doc.Dossier, doc.CID, doc.MTime}, values...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO "+doc.Table+" ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", doc.Table, err)
	}
	return nil
}

// Update overwrites every column of an existing row. Attributes missing from
// doc become NULL so nothing survives from the previous version.
func (r *DocumentRepo) Update(ctx context.Context, doc *Document) error {
	if err := checkTable(doc.Table); err != nil {
		return err
	}
	values, err := attrValues(doc)
	if err != nil {
		return err
	}

	sets := []string{"dossier = ?", "cid = ?", "mtime = ?"}
	for _, c := range documentColumns[doc.Table] {
		sets = append(sets, c+" = ?")
	}
	args := append([]any{doc.Dossier, doc.CID, doc.MTime}, values...)
	args = append(args, doc.ID)

	res, err := r.db.ExecContext(ctx,
		"UPDATE "+doc.Table+" SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", doc.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document only if it is still stored at the given
// dossier and chronicle id. It returns the number of rows removed.
func (r *DocumentRepo) Delete(ctx context.Context, table, dossier, cid, id string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE dossier = ? AND cid = ? AND id = ?",
		dossier, cid, id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Count returns the number of rows in a document table.
func (r *DocumentRepo) Count(ctx context.Context, table string) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

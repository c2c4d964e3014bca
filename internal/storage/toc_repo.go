package storage

import (
	"context"
	"fmt"
)

// TocRepo provides methods for table-of-contents rows (sommaires).
type TocRepo struct {
	db DBTX
}

// NewTocRepo creates a new TocRepo.
func NewTocRepo(db DBTX) *TocRepo {
	return &TocRepo{db: db}
}

func scopeWhere(scope TocScope) (string, []any) {
	if scope.Parent == "" {
		return "cid = ? AND _source = ?", []any{scope.CID, scope.Source}
	}
	return "cid = ? AND parent = ? AND _source = ?", []any{scope.CID, scope.Parent, scope.Source}
}

// Insert inserts a single entry.
func (r *TocRepo) Insert(ctx context.Context, e *TocEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sommaires (cid, parent, element, debut, fin, etat, num, position, _source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CID, nullString(e.Parent), e.Element, nullString(e.Debut), nullString(e.Fin),
		nullString(e.Etat), nullString(e.Num), e.Position, e.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert toc entry: %w", err)
	}
	return nil
}

// DeleteScope deletes every entry a container owns.
func (r *TocRepo) DeleteScope(ctx context.Context, scope TocScope) (int64, error) {
	where, args := scopeWhere(scope)
	res, err := r.db.ExecContext(ctx, "DELETE FROM sommaires WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete toc entries: %w", err)
	}
	return res.RowsAffected()
}

// ListScope returns the entries of a container ordered by position.
func (r *TocRepo) ListScope(ctx context.Context, scope TocScope) ([]TocEntry, error) {
	where, args := scopeWhere(scope)
	rows, err := r.db.QueryContext(ctx,
		`SELECT cid, COALESCE(parent, ''), element, COALESCE(debut, ''), COALESCE(fin, ''),
		        COALESCE(etat, ''), COALESCE(num, ''), position, _source
		   FROM sommaires WHERE `+where+` ORDER BY position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query toc entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []TocEntry
	for rows.Next() {
		var e TocEntry
		if err := rows.Scan(&e.CID, &e.Parent, &e.Element, &e.Debut, &e.Fin, &e.Etat, &e.Num, &e.Position, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan toc entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

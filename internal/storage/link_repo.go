package storage

import (
	"context"
	"fmt"
)

// LinkRepo provides methods for citation edges (liens).
type LinkRepo struct {
	db DBTX
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo(db DBTX) *LinkRepo {
	return &LinkRepo{db: db}
}

// ownedLinks selects the edges owned by a document: the ones it declares
// itself and the reversed ones it declares from the target side.
const ownedLinks = "(src_id = ? AND NOT _reversed) OR (dst_id = ? AND _reversed)"

// Insert inserts a single edge.
func (r *LinkRepo) Insert(ctx context.Context, link *Link) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO liens (src_id, dst_cid, dst_id, dst_titre, typelien, _reversed) VALUES (?, ?, ?, ?, ?, ?)",
		link.SrcID, link.DstCID, link.DstID, link.DstTitre, link.TypeLien, link.Reversed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

// DeleteOwned deletes every edge owned by a document, in both directions.
// Used before re-extracting the citations of a new version.
func (r *LinkRepo) DeleteOwned(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM liens WHERE "+ownedLinks, ownerID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete links: %w", err)
	}
	return res.RowsAffected()
}

// ListOwned returns the edges owned by a document.
// Returns an empty slice if there are none (not an error).
func (r *LinkRepo) ListOwned(ctx context.Context, ownerID string) ([]Link, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT src_id, COALESCE(dst_cid, ''), COALESCE(dst_id, ''), COALESCE(dst_titre, ''), COALESCE(typelien, ''), _reversed FROM liens WHERE "+ownedLinks+" ORDER BY rowid",
		ownerID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.SrcID, &l.DstCID, &l.DstID, &l.DstTitre, &l.TypeLien, &l.Reversed); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return links, nil
}

// CountTouching returns how many edges have the document at either end.
func (r *LinkRepo) CountTouching(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM liens WHERE src_id = ? OR dst_id = ?", id, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return n, nil
}

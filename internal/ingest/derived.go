package ingest

import (
	"context"
	"fmt"

	"legisync/internal/legi"
	"legisync/internal/storage"
)

// dropOwned deletes every derived row a document owns: its citation edges in
// both directions and, for containers, its table-of-contents rows. Updates and
// deletions share it so they always clean up the same rows.
func dropOwned(ctx context.Context, w storage.Writer, kind legi.Kind, cid, id string) (Counts, error) {
	var counts Counts

	if kind.OwnsLinks() {
		n, err := w.DeleteLinks(ctx, id)
		if err != nil {
			return counts, fmt.Errorf("failed to delete links of %s: %w", id, err)
		}
		counts.LinksDeleted += n
	}

	if kind.IsContainer() {
		n, err := w.DeleteToc(ctx, legi.TocScope(kind, cid, id))
		if err != nil {
			return counts, fmt.Errorf("failed to delete toc of %s: %w", id, err)
		}
		counts.TocDeleted += n
	}

	return counts, nil
}

// writeOwned inserts the derived rows extracted from the current version.
func writeOwned(ctx context.Context, w storage.Writer, doc *legi.Document) (Counts, error) {
	var counts Counts

	for i := range doc.Links {
		if err := w.InsertLink(ctx, &doc.Links[i]); err != nil {
			return counts, fmt.Errorf("failed to insert link of %s: %w", doc.ID, err)
		}
		counts.LinksInserted++
	}

	for i := range doc.Toc {
		if err := w.InsertTocEntry(ctx, &doc.Toc[i]); err != nil {
			return counts, fmt.Errorf("failed to insert toc entry of %s: %w", doc.ID, err)
		}
		counts.TocInserted++
	}

	return counts, nil
}

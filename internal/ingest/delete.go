package ingest

import (
	"context"
	"fmt"

	"legisync/internal/legi"
	"legisync/internal/storage"
)

// applyManifest deletes every document referenced by a deletion manifest,
// cascading to the rows it owns. A reference to a document that is absent,
// or stored at another dossier or chronicle id, is a no-op.
func applyManifest(ctx context.Context, w storage.Writer, refs []string) (Counts, error) {
	var counts Counts

	for _, ref := range refs {
		loc, err := legi.Classify(ref)
		if err != nil {
			return counts, err
		}

		n, err := w.DeleteDocument(ctx, loc.Kind.Table(), loc.Dossier, loc.CID, loc.ID)
		if err != nil {
			return counts, fmt.Errorf("failed to delete %s %s: %w", loc.Kind, loc.ID, err)
		}
		if n == 0 {
			continue
		}
		counts.Deleted += n

		dropped, err := dropOwned(ctx, w, loc.Kind, loc.CID, loc.ID)
		if err != nil {
			return counts, err
		}
		counts.merge(dropped)
	}

	return counts, nil
}

package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"legisync/internal/archive"
	"legisync/internal/legi"
	"legisync/internal/xmltree"
)

// decodeEntry classifies and decodes one archive entry. It touches no shared
// state, so entries can be decoded in parallel.
func decodeEntry(e *archive.Entry) (*legi.Document, error) {
	loc, err := legi.Classify(e.Path)
	if err != nil {
		return nil, err
	}
	root, err := xmltree.Parse(e.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", e.Path, err)
	}
	return legi.Decode(loc, e.MTime, root)
}

// decodeBatch decodes entries with at most workers goroutines. The result
// keeps entry order; the first error cancels the rest.
func decodeBatch(ctx context.Context, entries []*archive.Entry, workers int) ([]*legi.Document, error) {
	docs := make([]*legi.Document, len(entries))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			doc, err := decodeEntry(e)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

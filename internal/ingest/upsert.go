package ingest

import (
	"context"
	"errors"
	"fmt"

	"legisync/internal/legi"
	"legisync/internal/storage"
)

// Outcome is what happened to one candidate document.
type Outcome int

const (
	// OutcomeInserted: the document was not stored yet.
	OutcomeInserted Outcome = iota + 1
	// OutcomeUpdated: a newer version at the same dossier and chronicle id.
	OutcomeUpdated
	// OutcomeRelocated: a newer version that moved dossier or chronicle id.
	OutcomeRelocated
	// OutcomeSkipped: same version already stored (re-ingestion).
	OutcomeSkipped
	// OutcomeDuplicate: same version stored under another dossier or chronicle id.
	OutcomeDuplicate
	// OutcomeStale: older than the stored version.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRelocated:
		return "relocated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeStale:
		return "stale"
	}
	return "unknown"
}

// Writes reports whether the outcome changes the stored document.
func (o Outcome) Writes() bool {
	return o == OutcomeInserted || o == OutcomeUpdated || o == OutcomeRelocated
}

// Decision is the verdict of the version state machine for one candidate.
type Decision struct {
	Outcome Outcome
	// OldPath is the superseded file to record in the old-path log: the
	// stored location for a relocation, the candidate's own path when it
	// loses. Empty otherwise.
	OldPath string
}

// Decide compares a candidate with the stored state of the same id (nil when
// unseen). mtime is the only version clock: a strictly newer mtime wins, an
// equal mtime is a re-ingestion, and an equal mtime at another location counts
// as the older entry.
func Decide(prev *storage.DocumentState, doc *legi.Document) Decision {
	if prev == nil {
		return Decision{Outcome: OutcomeInserted}
	}
	moved := prev.Dossier != doc.Dossier || prev.CID != doc.CID

	switch {
	case doc.MTime == prev.MTime && !moved:
		return Decision{Outcome: OutcomeSkipped}
	case doc.MTime == prev.MTime:
		return Decision{Outcome: OutcomeDuplicate, OldPath: doc.Path}
	case doc.MTime < prev.MTime:
		return Decision{Outcome: OutcomeStale, OldPath: doc.Path}
	case moved:
		return Decision{
			Outcome: OutcomeRelocated,
			OldPath: legi.ReconstructPath(prev.Dossier, prev.CID, doc.Kind, doc.ID),
		}
	default:
		return Decision{Outcome: OutcomeUpdated}
	}
}

// Upserter applies candidate documents through the version state machine and
// regenerates the rows they own.
type Upserter struct{}

// Apply looks up the stored state of doc, decides, and performs the writes.
func (u *Upserter) Apply(ctx context.Context, w storage.Writer, doc *legi.Document) (Decision, Counts, error) {
	var counts Counts

	prev, err := w.DocumentState(ctx, doc.Kind.Table(), doc.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Decision{}, counts, fmt.Errorf("failed to check existing %s %s: %w", doc.Kind, doc.ID, err)
	}
	if errors.Is(err, storage.ErrNotFound) {
		prev = nil
	}

	decision := Decide(prev, doc)
	counts.add(decision.Outcome)
	if !decision.Outcome.Writes() {
		return decision, counts, nil
	}

	// Rows owned by the previous version are scoped by its chronicle id.
	ownerCID := doc.CID
	if prev != nil {
		ownerCID = prev.CID
	}
	dropped, err := dropOwned(ctx, w, doc.Kind, ownerCID, doc.ID)
	if err != nil {
		return decision, counts, err
	}
	counts.merge(dropped)

	if prev == nil {
		err = w.InsertDocument(ctx, doc.Row())
	} else {
		err = w.UpdateDocument(ctx, doc.Row())
	}
	if err != nil {
		return decision, counts, fmt.Errorf("failed to write %s %s: %w", doc.Kind, doc.ID, err)
	}

	written, err := writeOwned(ctx, w, doc)
	if err != nil {
		return decision, counts, err
	}
	counts.merge(written)

	return decision, counts, nil
}

package ingest

import (
	"time"

	"legisync/internal/legi"
)

// Counts tallies the operations performed while applying archives.
type Counts struct {
	// Inserted is the number of documents stored for the first time.
	Inserted int `json:"inserted"`
	// Updated is the number of documents replaced by a newer version in place.
	Updated int `json:"updated"`
	// Relocated is the number of documents replaced by a newer version that moved.
	Relocated int `json:"relocated"`
	// Skipped is the number of entries already stored with the same mtime.
	Skipped int `json:"skipped"`
	// Duplicates is the number of same-mtime entries found at another location.
	Duplicates int `json:"duplicates"`
	// Stale is the number of entries older than the stored version.
	Stale int `json:"stale"`
	// Deleted is the number of documents removed by deletion manifests.
	Deleted int64 `json:"deleted"`
	// LinksDeleted and LinksInserted count liens rows.
	LinksDeleted  int64 `json:"links_deleted"`
	LinksInserted int64 `json:"links_inserted"`
	// TocDeleted and TocInserted count sommaires rows.
	TocDeleted  int64 `json:"toc_deleted"`
	TocInserted int64 `json:"toc_inserted"`
}

func (c *Counts) add(o Outcome) {
	switch o {
	case OutcomeInserted:
		c.Inserted++
	case OutcomeUpdated:
		c.Updated++
	case OutcomeRelocated:
		c.Relocated++
	case OutcomeSkipped:
		c.Skipped++
	case OutcomeDuplicate:
		c.Duplicates++
	case OutcomeStale:
		c.Stale++
	}
}

func (c *Counts) merge(o Counts) {
	c.Inserted += o.Inserted
	c.Updated += o.Updated
	c.Relocated += o.Relocated
	c.Skipped += o.Skipped
	c.Duplicates += o.Duplicates
	c.Stale += o.Stale
	c.Deleted += o.Deleted
	c.LinksDeleted += o.LinksDeleted
	c.LinksInserted += o.LinksInserted
	c.TocDeleted += o.TocDeleted
	c.TocInserted += o.TocInserted
}

// Writes returns the number of document and derived rows changed.
// The watermark is not counted.
func (c Counts) Writes() int64 {
	return int64(c.Inserted+c.Updated+c.Relocated) +
		c.Deleted + c.LinksDeleted + c.LinksInserted + c.TocDeleted + c.TocInserted
}

// ArchiveReport describes the committed effect of one archive.
type ArchiveReport struct {
	Archive string `json:"archive"`
	Date    string `json:"date"`
	Full    bool   `json:"full"`
	// Entries is the number of document entries read (manifests excluded).
	Entries int `json:"entries"`
	// ManifestRefs is the number of deletion references read.
	ManifestRefs int `json:"manifest_refs"`
	Counts
	// OldPaths lists superseded files, in the order they were found.
	OldPaths []string `json:"old_paths,omitempty"`
	Duration float64  `json:"duration_seconds"`

	outcomes map[outcomeKey]int
}

type outcomeKey struct {
	table   string
	outcome string
}

func (r *ArchiveReport) track(kind legi.Kind, o Outcome) {
	if r.outcomes == nil {
		r.outcomes = make(map[outcomeKey]int)
	}
	r.outcomes[outcomeKey{table: kind.Table(), outcome: o.String()}]++
}

// RunReport describes one ingestion run over an archive directory.
type RunReport struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	// Watermark is the watermark after the run.
	Watermark string          `json:"watermark,omitempty"`
	Archives  []ArchiveReport `json:"archives"`
	// SkippedArchives counts archives not eligible under the watermark.
	SkippedArchives int `json:"skipped_archives"`
	// Unrecognized lists files matching the archive glob without a parsable date.
	Unrecognized []string `json:"unrecognized,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Totals sums the counts of every applied archive.
func (r *RunReport) Totals() Counts {
	var total Counts
	for _, a := range r.Archives {
		total.merge(a.Counts)
	}
	return total
}

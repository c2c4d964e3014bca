package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks legisync/internal/storage Store,Writer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Writer is the set of operations available inside one archive transaction.
type Writer interface {
	// DocumentState returns the version clock of a document.
	// Returns nil and ErrNotFound if not found.
	DocumentState(ctx context.Context, table, id string) (*DocumentState, error)
	// InsertDocument inserts a new document row.
	InsertDocument(ctx context.Context, doc *Document) error
	// UpdateDocument overwrites an existing document row.
	UpdateDocument(ctx context.Context, doc *Document) error
	// DeleteDocument deletes a document stored at dossier/cid and returns the rows removed.
	DeleteDocument(ctx context.Context, table, dossier, cid, id string) (int64, error)
	// DeleteLinks deletes every citation edge owned by a document.
	DeleteLinks(ctx context.Context, ownerID string) (int64, error)
	// InsertLink inserts a citation edge.
	InsertLink(ctx context.Context, link *Link) error
	// DeleteToc deletes the table-of-contents rows of a container.
	DeleteToc(ctx context.Context, scope TocScope) (int64, error)
	// InsertTocEntry inserts a table-of-contents row.
	InsertTocEntry(ctx context.Context, entry *TocEntry) error
	// SetWatermark records the date of the archive being applied.
	SetWatermark(ctx context.Context, value string) error
}

// Store is the relational store seen by the ingestion pipeline.
type Store interface {
	// Watermark returns the date of the last applied archive.
	// Returns ErrNotFound before the first full snapshot.
	Watermark(ctx context.Context) (string, error)
	// WithTx runs fn inside a transaction. The transaction commits only if
	// fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}

// SQLStore implements Store on a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB returns the underlying database handle.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Watermark returns the date of the last applied archive.
func (s *SQLStore) Watermark(ctx context.Context) (string, error) {
	return NewMetaRepo(s.db).Get(ctx, WatermarkKey)
}

// Counts returns the number of rows of every LEGI table.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int, error) {
	docs := NewDocumentRepo(s.db)
	counts := make(map[string]int)
	for _, table := range DocumentTables() {
		n, err := docs.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	for _, table := range []string{"liens", "sommaires"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// WithTx runs fn inside a transaction and commits if it succeeds.
func (s *SQLStore) WithTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, newTxWriter(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txWriter routes Writer calls to repositories bound to one transaction.
type txWriter struct {
	docs  *DocumentRepo
	links *LinkRepo
	toc   *TocRepo
	meta  *MetaRepo
}

func newTxWriter(tx *sql.Tx) *txWriter {
	return &txWriter{
		docs:  NewDocumentRepo(tx),
		links: NewLinkRepo(tx),
		toc:   NewTocRepo(tx),
		meta:  NewMetaRepo(tx),
	}
}

func (w *txWriter) DocumentState(ctx context.Context, table, id string) (*DocumentState, error) {
	return w.docs.GetState(ctx, table, id)
}

func (w *txWriter) InsertDocument(ctx context.Context, doc *Document) error {
	return w.docs.Insert(ctx, doc)
}

func (w *txWriter) UpdateDocument(ctx context.Context, doc *Document) error {
	return w.docs.Update(ctx, doc)
}

func (w *txWriter) DeleteDocument(ctx context.Context, table, dossier, cid, id string) (int64, error) {
	return w.docs.Delete(ctx, table, dossier, cid, id)
}

func (w *txWriter) DeleteLinks(ctx context.Context, ownerID string) (int64, error) {
	return w.links.DeleteOwned(ctx, ownerID)
}

func (w *txWriter) InsertLink(ctx context.Context, link *Link) error {
	return w.links.Insert(ctx, link)
}

func (w *txWriter) DeleteToc(ctx context.Context, scope TocScope) (int64, error) {
	return w.toc.DeleteScope(ctx, scope)
}

func (w *txWriter) InsertTocEntry(ctx context.Context, entry *TocEntry) error {
	return w.toc.Insert(ctx, entry)
}

func (w *txWriter) SetWatermark(ctx context.Context, value string) error {
	return w.meta.Set(ctx, WatermarkKey, value)
}

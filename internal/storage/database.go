package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// documentColumns lists the kind-specific columns of each document table.
// Every document table also has id, dossier, cid and mtime.
var documentColumns = map[string][]string{
	"articles": {
		"section", "num", "etat", "date_debut", "date_fin", "type", "nota", "bloc_textuel",
	},
	"sections": {
		"titre_ta", "commentaire", "parent",
	},
	"textes_structs": {
		"versions",
	},
	"textes_versions": {
		"nature", "titre", "titrefull", "etat", "date_debut", "date_fin", "autorite", "ministere",
		"num", "num_sequence", "nor", "date_publi", "date_texte", "derniere_modification",
		"origine_publi", "page_deb_publi", "page_fin_publi",
		"visas", "signataires", "tp", "nota", "abro", "rect",
	},
}

// DocumentTables returns the names of the document tables.
func DocumentTables() []string {
	return []string{"articles", "sections", "textes_structs", "textes_versions"}
}

// Columns returns the kind-specific columns of a document table, or nil if
// the table is unknown.
func Columns(table string) []string {
	return documentColumns[table]
}

// New opens a SQLite database connection at the given path.
// Writers wait on a busy database instead of failing, and WAL lets the status
// server read while an archive transaction is open.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the LEGI tables. It is idempotent and can be run multiple
// times safely.
func Migrate(db *sql.DB) error {
	var schema []string
	for _, table := range DocumentTables() {
		cols := []string{"id TEXT PRIMARY KEY"}
		for _, c := range documentColumns[table] {
			cols = append(cols, c+" TEXT")
		}
		cols = append(cols, "dossier TEXT NOT NULL", "cid TEXT NOT NULL", "mtime INTEGER NOT NULL")
		schema = append(schema,
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t\t\t%s\n\t\t);", table, strings.Join(cols, ",\n\t\t\t")),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_cid ON %s (cid);", table, table),
		)
	}

	schema = append(schema,
		`CREATE TABLE IF NOT EXISTS liens (
			src_id TEXT NOT NULL,
			dst_cid TEXT,
			dst_id TEXT,
			dst_titre TEXT,
			typelien TEXT,
			_reversed BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS liens_src_id ON liens (src_id);`,
		`CREATE INDEX IF NOT EXISTS liens_dst_id ON liens (dst_id);`,
		`CREATE TABLE IF NOT EXISTS sommaires (
			cid TEXT NOT NULL,
			parent TEXT,
			element TEXT NOT NULL,
			debut TEXT,
			fin TEXT,
			etat TEXT,
			num TEXT,
			position INTEGER NOT NULL,
			_source TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS sommaires_cid_source ON sommaires (cid, _source, parent);`,
		`CREATE TABLE IF NOT EXISTS db_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

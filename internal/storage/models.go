package storage

// DocumentState is the version clock of a stored document.
type DocumentState struct {
	Dossier string
	CID     string
	MTime   int64
}

// Document is one row of a document table (articles, sections,
// textes_structs or textes_versions).
type Document struct {
	Table   string
	ID      string            // Globally unique within its table
	Dossier string            // Administrative folder from the archive path
	CID     string            // Chronicle id grouping versions of a text
	MTime   int64             // Version clock (archive entry mtime)
	Attrs   map[string]string // Kind-specific columns; absent means NULL
}

// State returns the version clock of the document.
func (d *Document) State() DocumentState {
	return DocumentState{Dossier: d.Dossier, CID: d.CID, MTime: d.MTime}
}

// Link is a citation edge (row of liens). A reversed link was declared by its
// destination document and is owned by DstID.
type Link struct {
	SrcID    string
	DstCID   string
	DstID    string
	DstTitre string
	TypeLien string
	Reversed bool
}

// TocEntry is one ordered child of a container (row of sommaires).
type TocEntry struct {
	CID      string
	Parent   string // Empty for entries produced by a text structure
	Element  string
	Debut    string
	Fin      string
	Etat     string
	Num      string
	Position int // 0-based order within the container listing
	Source   string
}

// TocScope selects the table-of-contents rows owned by one container.
// An empty Parent means the scope is not restricted by parent.
type TocScope struct {
	CID    string
	Parent string
	Source string
}

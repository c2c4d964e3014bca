// Package legi holds the rules of the LEGI corpus: how archive paths map to
// document kinds and how decoded documents map to rows.
package legi

import (
	"path"
	"strings"
)

// Kind identifies which table a document belongs to.
type Kind int

const (
	KindArticle Kind = iota + 1
	KindSection
	KindTextStructure
	KindTextVersion
)

// ManifestName is the file name of a deletion manifest inside an archive.
const ManifestName = "liste_suppression_legi.dat"

// idLength is the length of every LEGI/JORF identifier.
const idLength = 20

var kinds = []Kind{KindArticle, KindSection, KindTextStructure, KindTextVersion}

// Kinds returns every document kind in a stable order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// Table returns the relational table holding documents of this kind.
func (k Kind) Table() string {
	switch k {
	case KindArticle:
		return "articles"
	case KindSection:
		return "sections"
	case KindTextStructure:
		return "textes_structs"
	case KindTextVersion:
		return "textes_versions"
	}
	return ""
}

// SousDossier returns the category folder used in archive paths.
func (k Kind) SousDossier() string {
	switch k {
	case KindArticle:
		return "article"
	case KindSection:
		return "section_ta"
	case KindTextStructure:
		return "texte/struct"
	case KindTextVersion:
		return "texte/version"
	}
	return ""
}

// RootTag is the document element expected for this kind.
func (k Kind) RootTag() string {
	switch k {
	case KindArticle:
		return "ARTICLE"
	case KindSection:
		return "SECTION_TA"
	case KindTextStructure:
		return "TEXTELR"
	case KindTextVersion:
		return "TEXTE_VERSION"
	}
	return ""
}

func (k Kind) String() string {
	if t := k.Table(); t != "" {
		return t
	}
	return "unknown"
}

// OwnsLinks reports whether documents of this kind carry citations.
func (k Kind) OwnsLinks() bool {
	return k == KindArticle || k == KindTextVersion
}

// IsContainer reports whether documents of this kind own table-of-contents rows.
func (k Kind) IsContainer() bool {
	return k == KindSection || k == KindTextStructure
}

// Location is the identity of a document as derived from its archive path.
type Location struct {
	Path    string
	Kind    Kind
	Dossier string
	CID     string
	ID      string
}

// Classify splits an entry path into dossier, chronicle id, kind and id.
//
// Accepted layouts (a leading archive directory before "legi" is dropped):
//
//	legi/<g>/<c>/<dossier>/<8 cid segments>/article/<8 id segments>.xml
//	legi/<g>/<c>/<dossier>/<8 cid segments>/section_ta/<8 id segments>.xml
//	legi/<g>/<c>/<dossier>/<8 cid segments>/texte/{struct,version}/<id>.xml
//
// The ".xml" suffix is optional so deletion manifest references classify too.
func Classify(entryPath string) (Location, error) {
	parts := strings.Split(entryPath, "/")
	if len(parts) > 1 && parts[0] != "legi" && parts[1] == "legi" {
		parts = parts[1:]
	}
	if parts[0] != "legi" {
		return Location{}, classificationError(entryPath, "path does not start with legi/")
	}
	if len(parts) < 15 {
		return Location{}, classificationError(entryPath, "expected at least 15 segments, got %d", len(parts))
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".xml")
	if len(name) != idLength {
		return Location{}, classificationError(entryPath, "document id %q is not %d characters", name, idLength)
	}

	var (
		kind  Kind
		depth int
	)
	switch code := name[4:8]; {
	case code == "ARTI" && parts[12] == "article":
		kind, depth = KindArticle, 21
	case code == "SCTA" && parts[12] == "section_ta":
		kind, depth = KindSection, 21
	case code == "TEXT" && parts[12] == "texte" && parts[13] == "struct":
		kind, depth = KindTextStructure, 15
	case code == "TEXT" && parts[12] == "texte" && parts[13] == "version":
		kind, depth = KindTextVersion, 15
	default:
		return Location{}, classificationError(entryPath, "unknown kind code %q in folder %q", code, path.Join(parts[12], parts[13]))
	}
	if len(parts) != depth {
		return Location{}, classificationError(entryPath, "%s paths have %d segments, got %d", kind, depth, len(parts))
	}

	loc := Location{
		Path:    strings.Join(parts, "/"),
		Kind:    kind,
		Dossier: parts[3],
		CID:     parts[11],
		ID:      name,
	}
	if loc.Dossier == "" || loc.CID == "" {
		return Location{}, classificationError(entryPath, "empty dossier or chronicle id")
	}
	return loc, nil
}

// IsManifest reports whether an entry path names a deletion manifest.
func IsManifest(entryPath string) bool {
	return path.Base(entryPath) == ManifestName
}

// ParseManifest splits a deletion manifest into its path references.
func ParseManifest(data []byte) []string {
	return strings.Fields(string(data))
}

// ReconstructPath rebuilds the canonical archive path of a stored document.
func ReconstructPath(dossier, cid string, kind Kind, id string) string {
	scope := "non"
	if strings.HasSuffix(dossier, "_en_vigueur") {
		scope = "en"
	}
	prefix := "legi/global/code_et_TNC_" + scope + "_vigueur/" + dossier + "/" + idToPath(cid)
	if kind == KindTextStructure || kind == KindTextVersion {
		return prefix + "/" + kind.SousDossier() + "/" + id + ".xml"
	}
	return prefix + "/" + kind.SousDossier() + "/" + idToPath(id) + ".xml"
}

// idToPath spreads an id over the directory levels used by the archives:
// LEGIARTI000006419292 -> LEGI/ARTI/00/00/06/41/92/LEGIARTI000006419292.
func idToPath(id string) string {
	if len(id) < 18 {
		return id
	}
	return strings.Join([]string{id[0:4], id[4:8], id[8:10], id[10:12], id[12:14], id[14:16], id[16:18], id}, "/")
}

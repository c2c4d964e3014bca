package legi

import (
	"legisync/internal/storage"
	"legisync/internal/xmltree"
)

// SectionSource tags table-of-contents rows produced by a section's own listing.
const SectionSource = "section_ta_liens"

// StructSource returns the tag for rows produced by a text structure.
func StructSource(id string) string {
	return "struct/" + id
}

// TocScope returns the rows a container owns: a section owns the rows under
// its own id, a text structure owns every row tagged with its source.
func TocScope(kind Kind, cid, id string) storage.TocScope {
	if kind == KindSection {
		return storage.TocScope{CID: cid, Parent: id, Source: SectionSource}
	}
	return storage.TocScope{CID: cid, Source: StructSource(id)}
}

// ExtractToc lists the ordered children of a container document. A missing
// listing yields no entries.
func ExtractToc(loc Location, root *xmltree.Node) (storage.TocScope, []storage.TocEntry) {
	scope := TocScope(loc.Kind, loc.CID, loc.ID)

	listing := "STRUCT"
	if loc.Kind == KindSection {
		listing = "STRUCTURE_TA"
	}
	list := root.Child(listing)
	if list == nil {
		return scope, nil
	}

	entries := make([]storage.TocEntry, 0, len(list.Children))
	for i, lien := range list.Children {
		entries = append(entries, storage.TocEntry{
			CID:      scope.CID,
			Parent:   scope.Parent,
			Element:  lien.Attr("id"),
			Debut:    lien.Attr("debut"),
			Fin:      lien.Attr("fin"),
			Etat:     lien.Attr("etat"),
			Num:      lien.Attr("num"),
			Position: i,
			Source:   scope.Source,
		})
	}
	return scope, entries
}

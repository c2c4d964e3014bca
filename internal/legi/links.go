package legi

import (
	"legisync/internal/storage"
	"legisync/internal/xmltree"
)

// inverseRelations pairs each citation kind with the kind seen from the other end.
var inverseRelations = func() map[string]string {
	pairs := map[string]string{
		"ABROGATION":   "ABROGE",
		"ANNULATION":   "ANNULE",
		"CODIFICATION": "CODIFIE",
		"CONCORDANCE":  "CONCORDE",
		"CREATION":     "CREE",
		"DEPLACE":      "DEPLACEMENT",
		"DISJOINT":     "DISJONCTION",
		"MODIFICATION": "MODIFIE",
		"PEREMPTION":   "PERIME",
		"RATIFICATION": "RATIFIE",
		"TRANSFERE":    "TRANSFERT",
	}
	m := make(map[string]string, 2*len(pairs))
	for k, v := range pairs {
		m[k] = v
		m[v] = k
	}
	return m
}()

// RelationKinds returns every relation kind with a declared inverse.
func RelationKinds() []string {
	out := make([]string, 0, len(inverseRelations))
	for k := range inverseRelations {
		out = append(out, k)
	}
	return out
}

// InverseRelation returns the relation kind as seen from the target side,
// falling back to kind+"_R" for undeclared kinds.
func InverseRelation(kind string) string {
	if inv, ok := inverseRelations[kind]; ok {
		return inv
	}
	return kind + "_R"
}

// linkContainers locates the LIENS element for kinds that own citations.
var linkContainers = map[Kind]string{
	KindArticle:     "LIENS",
	KindTextVersion: "META/META_SPEC/META_TEXTE_VERSION/LIENS",
}

// ExtractLinks returns the citation edges owned by a document. Edges declared
// from the target side (sens="cible") are stored reversed with the inverse kind.
func ExtractLinks(loc Location, root *xmltree.Node) ([]storage.Link, error) {
	container, ok := linkContainers[loc.Kind]
	if !ok {
		return nil, nil
	}
	liens := root.Find(container)
	if liens == nil {
		return nil, nil
	}

	links := make([]storage.Link, 0, len(liens.Children))
	for _, lien := range liens.Children {
		typelien := lien.Attr("typelien")
		other := lien.Attr("id")
		if lien.Attr("sens") == "cible" {
			if other == "" {
				return nil, integrityViolation(loc.Path, "reversed link target id", "non-empty", "")
			}
			links = append(links, storage.Link{
				SrcID:    other,
				DstID:    loc.ID,
				TypeLien: InverseRelation(typelien),
				Reversed: true,
			})
			continue
		}
		links = append(links, storage.Link{
			SrcID:    loc.ID,
			DstID:    other,
			DstCID:   lien.Attr("cidtexte"),
			DstTitre: lien.Text,
			TypeLien: typelien,
		})
	}
	return links, nil
}

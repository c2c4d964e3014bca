package legi

import (
	"strings"

	"legisync/internal/storage"
	"legisync/internal/xmltree"
)

// fieldRule lifts the child Tag of the element at Scope into Field.
// With Unwrap set, the inner markup of the tag's first child is taken instead
// of the tag's own inner markup.
type fieldRule struct {
	Scope  string
	Tag    string
	Field  string
	Unwrap bool
}

func lift(scope string, unwrap bool, tags ...string) []fieldRule {
	rules := make([]fieldRule, 0, len(tags))
	for _, tag := range tags {
		rules = append(rules, fieldRule{Scope: scope, Tag: tag, Field: strings.ToLower(tag), Unwrap: unwrap})
	}
	return rules
}

func concat(groups ...[]fieldRule) []fieldRule {
	var out []fieldRule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// fieldRules declares, per kind, which tags become attributes. Adding a column
// means adding a row here and in the storage schema.
var fieldRules = map[Kind][]fieldRule{
	KindArticle: concat(
		lift("META/META_SPEC/META_ARTICLE", false, "NUM", "ETAT", "DATE_DEBUT", "DATE_FIN", "TYPE"),
		lift("", true, "NOTA", "BLOC_TEXTUEL"),
	),
	KindSection:       lift("", false, "TITRE_TA", "COMMENTAIRE"),
	KindTextStructure: lift("", false, "VERSIONS"),
	KindTextVersion: concat(
		lift("META/META_SPEC/META_TEXTE_CHRONICLE", false,
			"NUM", "NUM_SEQUENCE", "NOR", "DATE_PUBLI", "DATE_TEXTE", "DERNIERE_MODIFICATION",
			"ORIGINE_PUBLI", "PAGE_DEB_PUBLI", "PAGE_FIN_PUBLI"),
		lift("META/META_SPEC/META_TEXTE_VERSION", false,
			"TITRE", "TITREFULL", "ETAT", "DATE_DEBUT", "DATE_FIN", "AUTORITE", "MINISTERE"),
		lift("", true, "VISAS", "SIGNATAIRES", "TP", "NOTA", "ABRO", "RECT"),
	),
}

// Fields returns the attribute names the extractor can produce for a kind,
// including the derived ones (section, parent, nature).
func Fields(kind Kind) []string {
	var out []string
	switch kind {
	case KindArticle:
		out = append(out, "section")
	case KindSection:
		out = append(out, "parent")
	case KindTextVersion:
		out = append(out, "nature")
	}
	seen := make(map[string]bool)
	for _, r := range fieldRules[kind] {
		if !seen[r.Field] {
			seen[r.Field] = true
			out = append(out, r.Field)
		}
	}
	return out
}

// Document is everything derived from one decoded archive entry.
type Document struct {
	Location
	MTime    int64
	Attrs    map[string]string
	Links    []storage.Link
	TocScope storage.TocScope
	Toc      []storage.TocEntry
}

// Row converts the document into its storage row.
func (d *Document) Row() *storage.Document {
	return &storage.Document{
		Table:   d.Kind.Table(),
		ID:      d.ID,
		Dossier: d.Dossier,
		CID:     d.CID,
		MTime:   d.MTime,
		Attrs:   d.Attrs,
	}
}

// Decode extracts attributes, citations and table-of-contents entries from a
// decoded entry, checking it against the identity derived from its path.
func Decode(loc Location, mtime int64, root *xmltree.Node) (*Document, error) {
	attrs, err := Extract(loc, root)
	if err != nil {
		return nil, err
	}
	doc := &Document{Location: loc, MTime: mtime, Attrs: attrs}

	if loc.Kind.OwnsLinks() {
		doc.Links, err = ExtractLinks(loc, root)
		if err != nil {
			return nil, err
		}
	}
	if loc.Kind.IsContainer() {
		doc.TocScope, doc.Toc = ExtractToc(loc, root)
	}
	return doc, nil
}

// Extract maps a decoded document to its flat attribute record. Absent tags
// leave the attribute unset.
func Extract(loc Location, root *xmltree.Node) (map[string]string, error) {
	if root.Tag != loc.Kind.RootTag() {
		return nil, integrityViolation(loc.Path, "document tag", loc.Kind.RootTag(), root.Tag)
	}

	idPath := "META/META_COMMUN/ID"
	if loc.Kind == KindSection {
		idPath = "ID"
	}
	if id := root.FindText(idPath); id != loc.ID {
		return nil, integrityViolation(loc.Path, "document id", loc.ID, id)
	}

	attrs := make(map[string]string)
	switch loc.Kind {
	case KindArticle:
		if nature := root.FindText("META/META_COMMUN/NATURE"); nature != "Article" {
			return nil, integrityViolation(loc.Path, "article nature", "Article", nature)
		}
		last, err := contextParent(loc, root)
		if err != nil {
			return nil, err
		}
		setAttr(attrs, "section", last)
	case KindSection:
		last, err := contextParent(loc, root)
		if err != nil {
			return nil, err
		}
		setAttr(attrs, "parent", last)
	case KindTextVersion:
		setAttr(attrs, "nature", root.FindText("META/META_COMMUN/NATURE"))
		if cid := root.FindText("META/META_SPEC/META_TEXTE_CHRONICLE/CID"); cid != loc.CID {
			return nil, integrityViolation(loc.Path, "chronicle id", loc.CID, cid)
		}
	}

	for _, rule := range fieldRules[loc.Kind] {
		scrape(attrs, root, rule)
	}
	return attrs, nil
}

// contextParent checks the enclosing text and returns the id of the innermost
// TITRE_TM, or "" at the top level.
func contextParent(loc Location, root *xmltree.Node) (string, error) {
	texte := root.Find("CONTEXTE/TEXTE")
	if cid := texte.Attr("cid"); cid != loc.CID {
		return "", integrityViolation(loc.Path, "context chronicle id", loc.CID, cid)
	}
	titles := texte.Descendants("TITRE_TM")
	if len(titles) == 0 {
		return "", nil
	}
	return titles[len(titles)-1].Attr("id"), nil
}

func scrape(attrs map[string]string, root *xmltree.Node, rule fieldRule) {
	scope := root
	if rule.Scope != "" {
		scope = root.Find(rule.Scope)
	}
	if scope == nil {
		return
	}
	for _, child := range scope.Children {
		if child.Tag != rule.Tag {
			continue
		}
		value := child.Inner
		if rule.Unwrap {
			if len(child.Children) == 0 {
				continue
			}
			value = child.Children[0].Inner
		}
		setAttr(attrs, rule.Field, value)
	}
}

func setAttr(attrs map[string]string, field, value string) {
	if value == "" {
		delete(attrs, field)
		return
	}
	attrs[field] = value
}

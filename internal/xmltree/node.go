// Package xmltree decodes an XML document into a tagged field tree that keeps
// the raw inner markup of every element.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one element of a decoded document.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	// Text is the concatenated character data directly under the element.
	Text string
	// Inner is the raw markup between the start and end tags.
	Inner string
}

// Parse decodes data into a tree rooted at the document element.
func Parse(data []byte) (*Node, error) {
	data, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	// data is UTF-8 by now whatever the declaration says.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root   *Node
		stack  []*Node
		starts []int64
		text   []*strings.Builder
	)

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			starts = append(starts, dec.InputOffset())
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			last := len(stack) - 1
			n := stack[last]
			if start := starts[last]; offset > start {
				n.Inner = string(data[start:offset])
			}
			n.Text = text[last].String()
			stack, starts, text = stack[:last], starts[:last], text[:last]
		case xml.CharData:
			if len(stack) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}

var declEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*\sencoding\s*=\s*["']([^"']+)["']`)

// toUTF8 transcodes a document whose declaration names another encoding
// (ISO-8859-1 in older LEGI files). Inner markup is sliced from the result,
// so the whole document is converted up front.
func toUTF8(data []byte) ([]byte, error) {
	m := declEncoding.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported xml encoding %q: %w", m[1], err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to transcode %s document: %w", label, err)
	}
	return out, nil
}

// Attr returns the named attribute, or "" when n is nil or lacks it.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// Child returns the first direct child with the given tag.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Find follows a slash-separated path of direct child tags, like
// "META/META_COMMUN/ID". It returns nil when any step is missing.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, tag := range strings.Split(path, "/") {
		cur = cur.Child(tag)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindText returns the trimmed text of the node at path, or "" if absent.
func (n *Node) FindText(path string) string {
	found := n.Find(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text)
}

// Descendants returns every element below n with the given tag, in document order.
func (n *Node) Descendants(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
		out = append(out, c.Descendants(tag)...)
	}
	return out
}

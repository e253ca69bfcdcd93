package bookparse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// dcNamespacePrefix prefixes the Dublin Core element namespaces
// (http://purl.org/dc/elements/1.1/ and the legacy 1.0 variant).
const dcNamespacePrefix = "http://purl.org/dc/"

// xmlNode is an element of a parsed XML document. Package documents are
// queried by namespace and local name explicitly, so the tree keeps both.
type xmlNode struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*xmlNode
	content  strings.Builder // text of all descendants, in document order
}

// parseXMLTree parses an already decoded XML document into a tree rooted
// at a synthetic document node. HTML named entities are accepted and
// mismatched end tags are tolerated, as ePubs frequently contain both.
func parseXMLTree(text string) (*xmlNode, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = false
	d.Entity = xml.HTMLEntity
	// The text is UTF-8 already; the prolog may still name the archive charset.
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	root := &xmlNode{}
	stack := []*xmlNode{root}
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bookparse: parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Name: t.Name, Attrs: t.Copy().Attr}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			for _, n := range stack {
				n.content.Write(t)
			}
		}
	}
	if len(root.Children) == 0 {
		return nil, errors.New("bookparse: parse xml: no root element")
	}
	return root, nil
}

// text returns the whitespace-normalised text content of n.
func (n *xmlNode) text() string {
	return strings.Join(strings.Fields(n.content.String()), " ")
}

// attr returns the value of the first attribute with the given local name,
// in any namespace (so "role" matches both role and opf:role).
func (n *xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// is reports whether n has the given local name, case-insensitively.
func (n *xmlNode) is(local string) bool {
	return strings.EqualFold(n.Name.Local, local)
}

// isDC reports whether n is in a Dublin Core namespace. An undeclared
// "dc" prefix is left unresolved by encoding/xml and is accepted as well.
func (n *xmlNode) isDC() bool {
	return strings.HasPrefix(n.Name.Space, dcNamespacePrefix) || n.Name.Space == "dc"
}

// children returns the direct children of n matching match.
func (n *xmlNode) children(match func(*xmlNode) bool) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.Children {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// find returns the first descendant of n, in document order, matching match.
func (n *xmlNode) find(match func(*xmlNode) bool) *xmlNode {
	for _, c := range n.Children {
		if match(c) {
			return c
		}
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of n, in document order, matching match.
func (n *xmlNode) findAll(match func(*xmlNode) bool) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.Children {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, c.findAll(match)...)
	}
	return out
}

// named matches elements by local name in any namespace.
func named(local string) func(*xmlNode) bool {
	return func(n *xmlNode) bool { return n.is(local) }
}

// dcNamed matches Dublin Core elements by local name.
func dcNamed(local string) func(*xmlNode) bool {
	return func(n *xmlNode) bool { return n.isDC() && n.is(local) }
}

// bareNamed matches elements by local name outside the Dublin Core namespace.
func bareNamed(local string) func(*xmlNode) bool {
	return func(n *xmlNode) bool { return !n.isDC() && n.is(local) }
}

// metaProperty matches <meta property="..."> elements whose property is
// one of props.
func metaProperty(props ...string) func(*xmlNode) bool {
	return func(n *xmlNode) bool {
		if !n.is("meta") {
			return false
		}
		p := strings.TrimSpace(n.attr("property"))
		for _, want := range props {
			if p == want {
				return true
			}
		}
		return false
	}
}

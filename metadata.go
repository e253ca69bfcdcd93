package bookparse

import (
	"strings"
)

// ExtractMetadata reads title, author, description and cover from an ePub.
// It never fails: an unreadable archive or a missing package document
// yields the zero DocumentMetadata. The returned value holds no reference
// to the archive.
func (e *EPUB) ExtractMetadata(f File) (DocumentMetadata, error) {
	var md DocumentMetadata
	err := e.withPackage(f, func(a *Archive, pkg *opfPackage) {
		md = DocumentMetadata{
			Title:       extractTitle(pkg.metadata),
			Author:      extractAuthor(pkg.metadata),
			Description: extractDescription(pkg.metadata),
			Cover:       extractCover(a, pkg),
		}
	})
	if err != nil {
		e.degraded("metadata", f, err)
		return DocumentMetadata{}, nil
	}
	return md, nil
}

// extractTitle tries, in order: a Dublin Core title, an unprefixed title,
// a title nested deeper in the metadata (legacy OEB dc-metadata blocks),
// then the ePub 3 dcterms:title and title meta properties.
func extractTitle(md *xmlNode) string {
	return firstText(
		md.children(dcNamed("title")),
		md.children(bareNamed("title")),
		md.findAll(named("title")),
		md.findAll(metaProperty("dcterms:title")),
		md.findAll(metaProperty("title")),
	)
}

// extractDescription follows the same chain as extractTitle for
// description elements.
func extractDescription(md *xmlNode) string {
	return firstText(
		md.children(dcNamed("description")),
		md.children(bareNamed("description")),
		md.findAll(named("description")),
		md.findAll(metaProperty("dcterms:description")),
	)
}

// extractAuthor joins the names of the book's authors with ", ".
//
// All creators are candidates. When role information marks some of them
// as authors ("aut"), either through ePub 3 <meta property="role"
// refines="#id"> or the ePub 2 opf:role attribute, only those are kept;
// editors, illustrators and other contributors are dropped.
func extractAuthor(md *xmlNode) string {
	creators := nonBlank(md.findAll(named("creator")))
	if len(creators) == 0 {
		creators = nonBlank(md.findAll(metaProperty("dcterms:creator", "creator")))
	}
	if len(creators) == 0 {
		return ""
	}

	authorIDs := make(map[string]bool)
	for _, m := range md.findAll(metaProperty("role")) {
		if !strings.EqualFold(m.text(), "aut") {
			continue
		}
		if id := strings.TrimPrefix(strings.TrimSpace(m.attr("refines")), "#"); id != "" {
			authorIDs[id] = true
		}
	}

	var authors []*xmlNode
	for _, c := range creators {
		id := strings.TrimSpace(c.attr("id"))
		if (id != "" && authorIDs[id]) || strings.EqualFold(strings.TrimSpace(c.attr("role")), "aut") {
			authors = append(authors, c)
		}
	}
	if len(authors) == 0 {
		authors = creators
	}

	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.text())
	}
	return strings.Join(names, ", ")
}

// firstText returns the text of the first non-blank node, trying each
// candidate group in order.
func firstText(groups ...[]*xmlNode) string {
	for _, nodes := range groups {
		for _, n := range nodes {
			if v := n.text(); v != "" {
				return v
			}
		}
	}
	return ""
}

// nonBlank filters out nodes without text.
func nonBlank(nodes []*xmlNode) []*xmlNode {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.text() != "" {
			out = append(out, n)
		}
	}
	return out
}

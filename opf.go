package bookparse

import (
	"fmt"
	"strings"
)

// opfPackage is the parsed OPF package document.
type opfPackage struct {
	ref packageRef

	// metadata is the <metadata> element; an empty node when absent.
	metadata *xmlNode

	// manifest lists the manifest items in document order.
	manifest     []manifestItem
	manifestByID map[string]*manifestItem

	// spine holds the itemrefs that resolve to a manifest item, in reading
	// order. Dangling itemrefs are dropped.
	spine []spineEntry

	guide []guideReference
}

// loadPackage locates, reads and parses the package document of a.
func loadPackage(a *Archive) (*opfPackage, error) {
	ref, ok := locatePackage(a)
	if !ok {
		return nil, fmt.Errorf("%w: no usable %s", ErrNoPackage, containerPath)
	}

	text, ok := a.ReadText(ref.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %s not readable", ErrNoPackage, ref.Path)
	}

	doc, err := parseXMLTree(text)
	if err != nil {
		return nil, fmt.Errorf("bookparse: parse OPF %s: %w", ref.Path, err)
	}

	return buildPackage(ref, doc), nil
}

// buildPackage extracts metadata, manifest, spine and guide from doc.
func buildPackage(ref packageRef, doc *xmlNode) *opfPackage {
	pkg := &opfPackage{
		ref:          ref,
		metadata:     &xmlNode{},
		manifestByID: make(map[string]*manifestItem),
	}

	if md := doc.find(named("metadata")); md != nil {
		pkg.metadata = md
	}

	if manifest := doc.find(named("manifest")); manifest != nil {
		for _, item := range manifest.findAll(named("item")) {
			pkg.manifest = append(pkg.manifest, manifestItem{
				ID:         strings.TrimSpace(item.attr("id")),
				Href:       strings.TrimSpace(item.attr("href")),
				MediaType:  strings.TrimSpace(item.attr("media-type")),
				Properties: item.attr("properties"),
			})
		}
	}
	for i := range pkg.manifest {
		mi := &pkg.manifest[i]
		if _, exists := pkg.manifestByID[mi.ID]; !exists && mi.ID != "" {
			pkg.manifestByID[mi.ID] = mi
		}
	}

	if spine := doc.find(named("spine")); spine != nil {
		for _, ref := range spine.findAll(named("itemref")) {
			idref := strings.TrimSpace(ref.attr("idref"))
			mi, ok := pkg.manifestByID[idref]
			if !ok || mi.Href == "" {
				continue
			}
			pkg.spine = append(pkg.spine, spineEntry{IDRef: idref, Href: mi.Href})
		}
	}

	if guide := doc.find(named("guide")); guide != nil {
		for _, r := range guide.findAll(named("reference")) {
			pkg.guide = append(pkg.guide, guideReference{
				Type: strings.TrimSpace(r.attr("type")),
				Href: strings.TrimSpace(r.attr("href")),
			})
		}
	}

	return pkg
}

// resolve resolves a manifest href against the package directory.
func (p *opfPackage) resolve(href string) string {
	return resolvePath(p.ref.Dir, href)
}

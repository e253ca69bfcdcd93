package bookparse

import "strings"

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// packageRef locates the OPF package document inside an archive.
type packageRef struct {
	// Path is the ZIP-internal path of the OPF file.
	Path string

	// Dir is Path without its final segment; "" when the OPF sits at the
	// archive root. Manifest hrefs resolve against it.
	Dir string
}

// locatePackage reads META-INF/container.xml and returns the full-path of
// its first rootfile. A missing or unparsable container, or a blank
// full-path, reports false.
func locatePackage(a *Archive) (packageRef, bool) {
	text, ok := a.ReadText(containerPath)
	if !ok {
		return packageRef{}, false
	}

	doc, err := parseXMLTree(text)
	if err != nil {
		return packageRef{}, false
	}

	rf := doc.find(named("rootfile"))
	if rf == nil {
		return packageRef{}, false
	}
	fullPath := strings.TrimSpace(rf.attr("full-path"))
	if fullPath == "" {
		return packageRef{}, false
	}

	return packageRef{Path: fullPath, Dir: parentDir(fullPath)}, true
}

package bookparse

import (
	"slices"
	"strings"
)

// octetStream is the MIME type of a cover whose format cannot be determined.
const octetStream = "application/octet-stream"

// coverCandidate is an image located by one of the cover strategies.
type coverCandidate struct {
	path      string // ZIP-internal path
	mediaType string // declared media-type, may be empty
}

// extractCover locates the cover image using three strategies, in order:
//  1. ePub 2 <meta name="cover" content="ID"/> → manifest item
//  2. ePub 3 manifest item with properties="cover-image"
//  3. <guide> reference type="cover" → XHTML page → first image
//
// A strategy whose image cannot be read falls through to the next one.
// Returns nil if no strategy succeeds.
func extractCover(a *Archive, pkg *opfPackage) *Cover {
	strategies := []func(*Archive, *opfPackage) (coverCandidate, bool){
		coverFromMetaCover,
		coverFromManifestProperties,
		coverFromGuide,
	}
	for _, strategy := range strategies {
		cand, ok := strategy(a, pkg)
		if !ok || cand.path == "" {
			continue
		}
		data, ok := a.ReadBytes(cand.path)
		if !ok {
			continue
		}
		return &Cover{Data: data, MimeType: resolveCoverMIME(cand.mediaType, data)}
	}
	return nil
}

// coverFromMetaCover resolves <meta name="cover" content="ID"/> through
// the manifest (ePub 2).
func coverFromMetaCover(_ *Archive, pkg *opfPackage) (coverCandidate, bool) {
	for _, m := range pkg.metadata.findAll(named("meta")) {
		if !strings.EqualFold(strings.TrimSpace(m.attr("name")), "cover") {
			continue
		}
		id := strings.TrimSpace(m.attr("content"))
		item, ok := pkg.manifestByID[id]
		if !ok || item.Href == "" {
			continue
		}
		return coverCandidate{path: pkg.resolve(item.Href), mediaType: item.MediaType}, true
	}
	return coverCandidate{}, false
}

// coverFromManifestProperties searches the manifest, in document order,
// for an item whose properties contain "cover-image" (ePub 3).
func coverFromManifestProperties(_ *Archive, pkg *opfPackage) (coverCandidate, bool) {
	for _, item := range pkg.manifest {
		if item.Href == "" {
			continue
		}
		if slices.Contains(strings.Fields(item.Properties), "cover-image") {
			return coverCandidate{path: pkg.resolve(item.Href), mediaType: item.MediaType}, true
		}
	}
	return coverCandidate{}, false
}

// coverFromGuide reads the XHTML page referenced by <guide><reference
// type="cover"> and takes its first image. The image src is relative to
// the cover page, not to the package document.
func coverFromGuide(a *Archive, pkg *opfPackage) (coverCandidate, bool) {
	for _, ref := range pkg.guide {
		if !strings.EqualFold(ref.Type, "cover") {
			continue
		}
		pagePath := pkg.resolve(ref.Href)
		if pagePath == "" {
			continue
		}
		page, ok := a.ReadText(pagePath)
		if !ok {
			continue
		}
		src := findFirstImageSrc(page)
		if src == "" {
			continue
		}
		return coverCandidate{path: resolvePath(parentDir(pagePath), src)}, true
	}
	return coverCandidate{}, false
}

// resolveCoverMIME picks the cover MIME type: the declared media-type if
// non-empty, else the type sniffed from magic bytes, else octet-stream.
func resolveCoverMIME(declared string, data []byte) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if sniffed := sniffImageMIME(data); sniffed != "" {
		return sniffed
	}
	return octetStream
}

// sniffImageMIME recognises JPEG, PNG, GIF and WEBP by their leading bytes.
func sniffImageMIME(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	switch {
	case data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case data[0] == 0x89 && data[1] == 0x50:
		return "image/png"
	case data[0] == 0x47 && data[1] == 0x49:
		return "image/gif"
	case data[0] == 0x52 && data[3] == 0x57:
		return "image/webp"
	case isRIFFWebP(data):
		return "image/webp"
	}
	return ""
}

// isRIFFWebP matches the full RIFF container signature: "RIFF" size "WEBP".
func isRIFFWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

package bookparse

import (
	"fmt"
	"strconv"
)

// IndexContent builds the chapter list of an ePub: one entry per spine
// itemref that resolves to a manifest item, in reading order. Itemrefs
// without a manifest match are skipped and the remaining chapters are
// numbered contiguously from 0.
//
// IndexContent never fails; an unreadable archive or missing package
// document yields an empty DocumentContent.
func (e *EPUB) IndexContent(f File) (DocumentContent, error) {
	var dc DocumentContent
	err := e.withPackage(f, func(a *Archive, pkg *opfPackage) {
		dc.Chapters = make([]ChapterMetadata, 0, len(pkg.spine))
		for i, entry := range pkg.spine {
			page, _ := a.ReadText(pkg.resolve(entry.Href))
			dc.Chapters = append(dc.Chapters, ChapterMetadata{
				Title: chapterTitle(page, i),
				Index: i,
				Href:  entry.Href,
			})
		}
		dc.Language = extractLanguage(pkg.metadata)

		protected, err := checkDRM(a)
		if err != nil {
			e.degraded("drm", f, err)
		}
		dc.Protected = protected
	})
	if err != nil {
		e.degraded("index", f, err)
		return DocumentContent{}, nil
	}
	return dc, nil
}

// LoadChapterContent returns the decoded source document of the chapter at
// index, numbered as in IndexContent. It returns "" if the index is out of
// range or the document cannot be read.
func (e *EPUB) LoadChapterContent(f File, index int) (string, error) {
	var content string
	err := e.withPackage(f, func(a *Archive, pkg *opfPackage) {
		if index < 0 || index >= len(pkg.spine) {
			e.degraded("chapter", f, fmt.Errorf("chapter index %d out of range [0,%d)", index, len(pkg.spine)))
			return
		}
		name := pkg.resolve(pkg.spine[index].Href)
		text, ok := a.ReadText(name)
		if !ok {
			e.degraded("chapter", f, fmt.Errorf("%w: %s", ErrFileNotFound, name))
			return
		}
		content = text
	})
	if err != nil {
		e.degraded("chapter", f, err)
		return "", nil
	}
	return content, nil
}

// chapterTitle titles the chapter at position i, falling back to a
// 1-based "Chapter N" label.
func chapterTitle(page string, i int) string {
	if page != "" {
		if t := findChapterTitle(page); t != "" {
			return t
		}
	}
	return "Chapter " + strconv.Itoa(i+1)
}

// extractLanguage returns the first non-blank dc:language or language value.
func extractLanguage(md *xmlNode) string {
	return firstText(
		md.children(dcNamed("language")),
		md.findAll(named("language")),
	)
}

package bookparse

import (
	"bytes"
	"hash/fnv"
)

// DocumentMetadata holds the bibliographic data extracted from a book file.
// Empty strings and a nil Cover mean the value was not found.
type DocumentMetadata struct {
	// Title is the book title.
	Title string

	// Author is the display string of the authors, joined with ", ".
	Author string

	// Description is the publisher supplied description.
	Description string

	// Cover is the cover image, or nil if none could be located.
	Cover *Cover
}

// IsZero reports whether md carries no metadata at all.
func (md DocumentMetadata) IsZero() bool {
	return md.Title == "" && md.Author == "" && md.Description == "" && md.Cover == nil
}

// Cover holds the bytes of a cover image and its resolved MIME type.
type Cover struct {
	// Data is the raw image bytes, owned by the Cover.
	Data []byte

	// MimeType is the resolved MIME type (e.g., "image/jpeg").
	MimeType string
}

// Extension returns the file extension matching the cover MIME type,
// without a leading dot. Unknown types map to "jpg".
func (c Cover) Extension() string {
	switch c.MimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// Equal reports whether two covers hold the same bytes and MIME type.
func (c Cover) Equal(other Cover) bool {
	return c.MimeType == other.MimeType && bytes.Equal(c.Data, other.Data)
}

// Hash returns a content hash of the cover, consistent with Equal.
func (c Cover) Hash() uint64 {
	h := fnv.New64a()
	h.Write(c.Data)
	h.Write([]byte{0})
	h.Write([]byte(c.MimeType))
	return h.Sum64()
}

// ChapterMetadata describes one entry of the reading order.
type ChapterMetadata struct {
	// Title is the chapter title. It is never empty: chapters without a
	// usable heading are labelled "Chapter N".
	Title string

	// Index is the 0-based position of the chapter in the chapter list.
	Index int

	// Href is the manifest href of the chapter document, relative to the
	// package document directory.
	Href string
}

// DocumentContent is the chapter index of a book.
type DocumentContent struct {
	// Chapters lists the chapters in spine order.
	Chapters []ChapterMetadata

	// Language is the dc:language value, empty if absent.
	Language string

	// Protected reports whether the archive declares DRM encryption.
	// Chapter text of a protected book is usually unreadable.
	Protected bool
}

// TotalChapters returns the number of chapters.
func (dc DocumentContent) TotalChapters() int {
	return len(dc.Chapters)
}

// Chapter is a chapter together with its decoded source document.
type Chapter struct {
	Metadata ChapterMetadata

	// Content is the decoded (X)HTML of the chapter document.
	Content string
}

// manifestItem represents an entry in the OPF <manifest> element.
type manifestItem struct {
	// ID is the unique identifier of this manifest item.
	ID string

	// Href is the file path relative to the OPF file location.
	Href string

	// MediaType is the MIME type of the resource.
	MediaType string

	// Properties contains space-separated property values (ePub 3, e.g., "nav", "cover-image").
	Properties string
}

// spineEntry is a spine itemref resolved against the manifest.
type spineEntry struct {
	IDRef string
	Href  string
}

// guideReference is a <reference> entry of the OPF <guide>.
type guideReference struct {
	Type string
	Href string
}

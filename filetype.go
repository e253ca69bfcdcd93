package bookparse

import (
	"io"
	"path"
	"strings"
)

// FileType is the closed set of book formats known to the registry.
type FileType int

const (
	// FileTypeUnsupported covers every extension or MIME type not listed below.
	FileTypeUnsupported FileType = iota
	FileTypeEPUB
	FileTypePDF
)

// fileTypeTable is the fixed extension/MIME classification table.
var fileTypeTable = []struct {
	typ       FileType
	extension string
	mimeType  string
}{
	{FileTypeEPUB, "epub", "application/epub+zip"},
	{FileTypePDF, "pdf", "application/pdf"},
}

// String returns the upper-case tag of the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeEPUB:
		return "EPUB"
	case FileTypePDF:
		return "PDF"
	default:
		return "UNSUPPORTED"
	}
}

// Extension returns the canonical extension (without dot), or "" for
// FileTypeUnsupported.
func (t FileType) Extension() string {
	for _, row := range fileTypeTable {
		if row.typ == t {
			return row.extension
		}
	}
	return ""
}

// MIMEType returns the canonical MIME type, or "" for FileTypeUnsupported.
func (t FileType) MIMEType() string {
	for _, row := range fileTypeTable {
		if row.typ == t {
			return row.mimeType
		}
	}
	return ""
}

// FileTypeFromExtension classifies a file extension, with or without a
// leading dot, case-insensitively.
func FileTypeFromExtension(ext string) FileType {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	for _, row := range fileTypeTable {
		if row.extension == ext {
			return row.typ
		}
	}
	return FileTypeUnsupported
}

// FileTypeFromMIME classifies a MIME type. Parameters such as
// "; charset=binary" are ignored.
func FileTypeFromMIME(mimeType string) FileType {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, row := range fileTypeTable {
		if row.mimeType == mimeType {
			return row.typ
		}
	}
	return FileTypeUnsupported
}

// FileTypeFromName classifies a file name by its extension.
func FileTypeFromName(name string) FileType {
	return FileTypeFromExtension(path.Ext(strings.ReplaceAll(name, "\\", "/")))
}

// BookSource is an opaque byte source handed over by the host application
// (a picked document, an upload). The import pipeline copies it to stable
// storage before any extractor reads it.
type BookSource interface {
	OpenInputStream() (io.ReadCloser, error)
	FileName() (string, bool)
}

// ClassifySource derives the file type of a BookSource from its file name.
// Sources without a name are unsupported.
func ClassifySource(src BookSource) FileType {
	name, ok := src.FileName()
	if !ok {
		return FileTypeUnsupported
	}
	return FileTypeFromName(name)
}

package bookparse

// PDF is a placeholder extractor for PDF files. PDF extraction is not
// implemented; every method reports ErrNotSupported so callers treat the
// file as having no metadata or content.
type PDF struct{}

// ExtractMetadata always returns ErrNotSupported.
func (PDF) ExtractMetadata(File) (DocumentMetadata, error) {
	return DocumentMetadata{}, ErrNotSupported
}

// IndexContent always returns ErrNotSupported.
func (PDF) IndexContent(File) (DocumentContent, error) {
	return DocumentContent{}, ErrNotSupported
}

// LoadChapterContent always returns ErrNotSupported.
func (PDF) LoadChapterContent(File, int) (string, error) {
	return "", ErrNotSupported
}

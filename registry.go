package bookparse

import (
	"fmt"
	"log/slog"
)

// MetadataExtractor reads bibliographic metadata from a book file.
type MetadataExtractor interface {
	ExtractMetadata(f File) (DocumentMetadata, error)
}

// ContentParser builds the chapter index of a book file and loads
// individual chapters on demand.
type ContentParser interface {
	IndexContent(f File) (DocumentContent, error)
	LoadChapterContent(f File, index int) (string, error)
}

// ParserSource looks up the ContentParser for a file type.
// Registry implements it.
type ParserSource interface {
	ContentParser(t FileType) (ContentParser, bool)
}

// Registry maps file types to the extractors responsible for them.
// Adding a format means adding a table entry, via WithMetadataExtractor
// and WithContentParser.
//
// A Registry is immutable after NewRegistry returns and is safe for
// concurrent use.
type Registry struct {
	cfg       Config
	logger    *slog.Logger
	metadata  map[FileType]MetadataExtractor
	content   map[FileType]ContentParser
	overrides []func(*Registry)
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfig sets the archive configuration of the built-in extractors.
// An invalid cfg is replaced by DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(r *Registry) { r.cfg = cfg }
}

// WithLogger sets the logger of the built-in extractors.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetadataExtractor registers e for t, replacing any default. A nil e
// removes the entry, making t unsupported for metadata.
func WithMetadataExtractor(t FileType, e MetadataExtractor) Option {
	return func(r *Registry) {
		r.overrides = append(r.overrides, func(r *Registry) {
			if e == nil {
				delete(r.metadata, t)
				return
			}
			r.metadata[t] = e
		})
	}
}

// WithContentParser registers p for t, replacing any default. A nil p
// removes the entry.
func WithContentParser(t FileType, p ContentParser) Option {
	return func(r *Registry) {
		r.overrides = append(r.overrides, func(r *Registry) {
			if p == nil {
				delete(r.content, t)
				return
			}
			r.content[t] = p
		})
	}
}

// NewRegistry returns a registry with the default table: EPUB handled by
// an EPUB extractor, PDF by the PDF stub. FileTypeUnsupported never has
// an entry unless one is registered explicitly.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cfg:      DefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
		metadata: make(map[FileType]MetadataExtractor),
		content:  make(map[FileType]ContentParser),
	}
	for _, opt := range opts {
		opt(r)
	}

	epub := NewEPUB(r.cfg, r.logger)
	var pdf PDF
	r.metadata[FileTypeEPUB] = epub
	r.metadata[FileTypePDF] = pdf
	r.content[FileTypeEPUB] = epub
	r.content[FileTypePDF] = pdf

	for _, apply := range r.overrides {
		apply(r)
	}
	r.overrides = nil
	return r
}

// MetadataExtractor returns the extractor for t, or false if t is not supported.
func (r *Registry) MetadataExtractor(t FileType) (MetadataExtractor, bool) {
	e, ok := r.metadata[t]
	return e, ok
}

// ContentParser returns the content parser for t, or false if t is not supported.
func (r *Registry) ContentParser(t FileType) (ContentParser, bool) {
	p, ok := r.content[t]
	return p, ok
}

// ExtractMetadata dispatches f to the extractor registered for f.Type.
// It returns ErrNotSupported when no extractor is registered or the
// extractor is a stub.
func (r *Registry) ExtractMetadata(f File) (DocumentMetadata, error) {
	e, ok := r.MetadataExtractor(f.Type)
	if !ok {
		return DocumentMetadata{}, fmt.Errorf("%w: %s", ErrNotSupported, f.Type)
	}
	return e.ExtractMetadata(f)
}

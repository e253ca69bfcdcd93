// Package bookparse extracts what a reading application needs from e-book
// files: bibliographic metadata with the cover image, a chapter list, and
// chapter text on demand. ePub 2 and ePub 3 are supported; PDF is
// recognised but not extracted.
//
// # Files and formats
//
// A [File] names a staged book on an [afero.Fs] together with its
// [FileType]. [NewFile] classifies by extension:
//
//	f := bookparse.NewFile(afero.NewOsFs(), "/library/dune.epub")
//
// A [Registry] maps file types to extractors. The default registry handles
// EPUB with [EPUB] and answers PDF with the [PDF] stub:
//
//	reg := bookparse.NewRegistry(bookparse.WithLogger(logger))
//	md, err := reg.ExtractMetadata(f)
//	if errors.Is(err, bookparse.ErrNotSupported) {
//	    // no metadata for this format
//	}
//
// # Metadata
//
// [EPUB.ExtractMetadata] reads the title, authors, description and cover.
// Each field is looked up through the ePub 2 unprefixed, Dublin Core
// namespaced and ePub 3 meta-property encodings in turn. The cover is
// found through the ePub 2 cover meta, the ePub 3 cover-image property or
// the guide cover page, and its MIME type is sniffed when undeclared.
//
// # Chapters
//
// [EPUB.IndexContent] lists the spine in reading order; chapter text is
// read one chapter at a time with [EPUB.LoadChapterContent]. A
// [ChapterCache] sits in front of both for one open book, keeping a
// three-chapter window around the reading position:
//
//	cache := bookparse.NewChapterCache(reg)
//	ch, ok := cache.GetChapter(f, 0)
//	prev, next := cache.AdjacentChapters(f, 0)
//
// # Error Handling
//
// Malformed books do not produce errors. A missing container.xml, an
// unreadable package document or a dangling spine reference degrade to
// empty results so one bad file cannot break a batch import. Absorbed
// failures are logged at debug level. [ErrNotSupported] is the only error
// extraction reports.
package bookparse

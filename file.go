package bookparse

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
)

// File identifies a staged book file. Extractors open it for the duration
// of a single call and never retain the handle.
type File struct {
	// Fs is the filesystem holding the file.
	Fs afero.Fs

	// Name is the path of the file within Fs.
	Name string

	// Type selects the extractor in a Registry.
	Type FileType
}

// NewFile returns a File on fs whose Type is derived from the name extension.
func NewFile(fs afero.Fs, name string) File {
	return File{Fs: fs, Name: name, Type: FileTypeFromName(name)}
}

// OSFile returns a File on the operating system filesystem.
func OSFile(name string) File {
	return NewFile(afero.NewOsFs(), name)
}

// fileIdentity tells ChapterCache whether two Files refer to the same
// unchanged content.
type fileIdentity struct {
	name    string
	size    int64
	modTime time.Time
}

// identity stats the file. A file that cannot be stat'ed is identified by
// name only.
func (f File) identity() fileIdentity {
	id := fileIdentity{name: f.Name}
	if f.Fs == nil {
		return id
	}
	if fi, err := f.Fs.Stat(f.Name); err == nil {
		id.size = fi.Size()
		id.modTime = fi.ModTime()
	}
	return id
}

// same reports whether two identities denote the same unchanged file.
func (id fileIdentity) same(other fileIdentity) bool {
	return id.name == other.name && id.size == other.size && id.modTime.Equal(other.modTime)
}

// openArchive opens f as a zip archive. The returned closer releases the
// underlying file and must be called on every path.
func openArchive(f File, cfg Config) (*Archive, io.Closer, error) {
	if f.Fs == nil {
		return nil, nil, fmt.Errorf("bookparse: open %s: nil filesystem", f.Name)
	}
	fh, err := f.Fs.Open(f.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("bookparse: open %s: %w", f.Name, err)
	}
	fi, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, nil, fmt.Errorf("bookparse: stat %s: %w", f.Name, err)
	}
	zr, err := zip.NewReader(fh, fi.Size())
	if err != nil {
		fh.Close()
		return nil, nil, fmt.Errorf("bookparse: open zip %s: %w", f.Name, err)
	}
	return newArchive(zr, cfg), fh, nil
}

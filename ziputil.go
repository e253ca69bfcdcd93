package bookparse

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Archive gives read access to the entries of a zip container.
// An Archive is only valid while the file it was opened from is open.
type Archive struct {
	cfg      Config
	zipExact map[string]*zip.File // exact-match ZIP file index
	zipLower map[string]*zip.File // lowercase ZIP file index
}

// newArchive builds exact-match and lowercase ZIP file indexes for O(1) lookups.
func newArchive(zr *zip.Reader, cfg Config) *Archive {
	a := &Archive{
		cfg:      cfg,
		zipExact: make(map[string]*zip.File, len(zr.File)),
		zipLower: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, exists := a.zipExact[f.Name]; !exists {
			a.zipExact[f.Name] = f // first match wins for exact
		}
		lower := strings.ToLower(f.Name)
		if _, exists := a.zipLower[lower]; !exists {
			a.zipLower[lower] = f
		}
	}
	return a
}

// findFile looks up a ZIP entry by path. It tries an exact match first,
// then, if enabled, a case-insensitive match.
func (a *Archive) findFile(name string) *zip.File {
	if f, ok := a.zipExact[name]; ok {
		return f
	}
	if !a.cfg.CaseInsensitivePaths {
		return nil
	}
	if f, ok := a.zipLower[strings.ToLower(name)]; ok {
		return f
	}
	return nil
}

// readFile reads an entry, returning ErrFileNotFound when it does not exist.
func (a *Archive) readFile(name string) ([]byte, error) {
	f := a.findFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return readZipFileWithLimit(f, a.cfg.MaxEntrySize)
}

// ReadBytes returns the raw bytes of the named entry. The second result is
// false if the entry is missing or cannot be read.
func (a *Archive) ReadBytes(name string) ([]byte, bool) {
	data, err := a.readFile(name)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ReadText returns the named entry decoded to a UTF-8 string. The charset
// is taken from the XML encoding declaration, defaulting to UTF-8.
func (a *Archive) ReadText(name string) (string, bool) {
	data, ok := a.ReadBytes(name)
	if !ok {
		return "", false
	}
	return decodeText(data, a.cfg.EncodingScanBytes), true
}

// encodingDeclPattern matches the encoding pseudo-attribute of an XML prolog.
var encodingDeclPattern = regexp.MustCompile(`encoding=["']([^"']+)["']`)

// detectXMLEncoding scans the first scanLen bytes of data for an encoding
// declaration and returns the encoding with its canonical name. It returns
// nil when none is found or the label is unknown.
func detectXMLEncoding(data []byte, scanLen int) (encoding.Encoding, string) {
	head := data
	if len(head) > scanLen {
		head = head[:scanLen]
	}
	// Keep the scan ASCII-only so multi-byte payloads cannot confuse it.
	ascii := make([]byte, len(head))
	for i, b := range head {
		if b < 0x80 {
			ascii[i] = b
		} else {
			ascii[i] = '?'
		}
	}
	m := encodingDeclPattern.FindSubmatch(ascii)
	if m == nil {
		return nil, ""
	}
	return charset.Lookup(strings.TrimSpace(string(m[1])))
}

// decodeText converts data to a UTF-8 string using the declared charset.
// Decoding failures fall back to the raw bytes interpreted as UTF-8.
func decodeText(data []byte, scanLen int) string {
	data = stripBOM(data)
	enc, name := detectXMLEncoding(data, scanLen)
	if enc == nil || name == "utf-8" {
		return string(data)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(stripBOM(decoded))
}

// resolvePath joins href onto dir, the way a package document references
// its resources. Fragments and percent-escapes are handled, "." and ".."
// segments and doubled slashes collapsed, and any path escaping the
// archive root yields "".
func resolvePath(dir, href string) string {
	href = strings.TrimSpace(href)
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		href = href[:idx]
	}
	// A leading slash still joins onto dir.
	href = strings.TrimLeft(href, "/")
	if href == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	joined := href
	if dir != "" && dir != "." {
		joined = dir + "/" + href
	}
	cleaned := path.Clean(joined)
	if !isSafePath(cleaned) {
		return ""
	}
	return cleaned
}

// parentDir returns p with its final "/segment" removed, or "" when p has
// no directory component.
func parentDir(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[:idx]
	}
	return ""
}

// isSafePath checks whether p is a safe ZIP-internal path that does not
// escape the archive root via path traversal (e.g., "../../../etc/passwd").
func isSafePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	return true
}

// stripBOM removes a leading UTF-8 BOM (0xEF 0xBB 0xBF) from data, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// readZipFileWithLimit reads the full contents of a ZIP entry, rejecting
// unsafe entry names and entries that decompress beyond limit.
func readZipFileWithLimit(f *zip.File, limit int64) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("bookparse: unsafe zip entry path: %s", f.Name)
	}

	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("bookparse: zip entry %s too large: %d bytes (max %d)", f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("bookparse: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// Read up to limit+1 to detect if the actual decompressed data
	// exceeds the limit (the declared size might be wrong/forged).
	lr := io.LimitReader(rc, limit+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("bookparse: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("bookparse: zip entry %s decompressed size exceeds limit (%d bytes)", f.Name, limit)
	}

	return data, nil
}

package bookparse

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// validContainerXML is a well-formed META-INF/container.xml pointing to an OPF.
const validContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// testOPF returns an OPF document with the given metadata, manifest, spine,
// and guide XML fragments inserted.
func testOPF(meta, manifest, spine, guide string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">` + meta + `</metadata>
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
  <guide>` + guide + `</guide>
</package>`
}

// testChapter returns a minimal XHTML chapter document.
func testChapter(title, body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>` + title + `</title></head>
<body>` + body + `</body>
</html>`
}

// testEPubFiles returns the minimum ePub file set with the given OPF and any
// extra files merged in.
func testEPubFiles(opf string, extra map[string]string) map[string]string {
	files := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": validContainerXML,
		"OEBPS/content.opf":      opf,
	}
	for k, v := range extra {
		files[k] = v
	}
	return files
}

// buildTestZipBytes creates a ZIP archive from the provided files map
// (path → content). The mimetype entry, if present, is written first; the
// rest follow in sorted order. It calls t.Fatal on any error.
func buildTestZipBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := files["mimetype"]; ok {
		names = append([]string{"mimetype"}, names...)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildTestZipBytes: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, files[name]); err != nil {
			t.Fatalf("buildTestZipBytes: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildTestZipBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildTestArchive returns an Archive over an in-memory ZIP with the default config.
func buildTestArchive(t testing.TB, files map[string]string) *Archive {
	t.Helper()
	data := buildTestZipBytes(t, files)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildTestArchive: open reader: %v", err)
	}
	return newArchive(zr, DefaultConfig())
}

// writeTestEPub writes an ePub archive to name on fs and returns its File.
func writeTestEPub(t testing.TB, fs afero.Fs, name string, files map[string]string) File {
	t.Helper()
	if err := afero.WriteFile(fs, name, buildTestZipBytes(t, files), 0o644); err != nil {
		t.Fatalf("writeTestEPub: write %s: %v", name, err)
	}
	return NewFile(fs, name)
}

// buildTestEPub writes an ePub archive to a fresh in-memory filesystem.
func buildTestEPub(t testing.TB, files map[string]string) File {
	t.Helper()
	return writeTestEPub(t, afero.NewMemMapFs(), "/books/test.epub", files)
}

// newTestEPub returns an EPUB extractor with the default config.
func newTestEPub() *EPUB {
	return NewEPUB(DefaultConfig(), nil)
}

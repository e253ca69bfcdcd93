package bookparse

import (
	"testing"
)

const (
	jpegBytes = "\xFF\xD8\xFF\xE0JFIF"
	pngBytes  = "\x89PNG\r\n\x1a\n"
	gifBytes  = "GIF89a"
)

func extractTestCover(t *testing.T, meta, manifest, guide string, extra map[string]string) *Cover {
	t.Helper()
	f := buildTestEPub(t, testEPubFiles(testOPF(meta, manifest, "", guide), extra))
	md, err := newTestEPub().ExtractMetadata(f)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	return md.Cover
}

func TestExtractCover_MetaCover(t *testing.T) {
	cover := extractTestCover(t,
		`<meta name="cover" content="cover-img"/>`,
		`<item id="cover-img" href="images/cover.jpg" media-type="image/jpeg"/>`,
		"",
		map[string]string{"OEBPS/images/cover.jpg": jpegBytes})

	if cover == nil {
		t.Fatal("Cover = nil")
	}
	if string(cover.Data) != jpegBytes {
		t.Errorf("Cover.Data = %q, want %q", cover.Data, jpegBytes)
	}
	if cover.MimeType != "image/jpeg" {
		t.Errorf("Cover.MimeType = %q, want image/jpeg", cover.MimeType)
	}
}

func TestExtractCover_ManifestProperties(t *testing.T) {
	cover := extractTestCover(t, "",
		`<item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
<item id="img" href="images/front.png" media-type="image/png" properties="cover-image"/>`,
		"",
		map[string]string{"OEBPS/images/front.png": pngBytes})

	if cover == nil {
		t.Fatal("Cover = nil")
	}
	if cover.MimeType != "image/png" {
		t.Errorf("Cover.MimeType = %q, want image/png", cover.MimeType)
	}
}

func TestExtractCover_Guide(t *testing.T) {
	page := testChapter("Cover", `<div><img src="../Images/cover.jpg" alt="cover"/></div>`)
	cover := extractTestCover(t, "",
		`<item id="cover-page" href="Text/cover.xhtml" media-type="application/xhtml+xml"/>`,
		`<reference type="cover" href="Text/cover.xhtml" title="Cover"/>`,
		map[string]string{
			"OEBPS/Text/cover.xhtml": page,
			"OEBPS/Images/cover.jpg": jpegBytes,
		})

	if cover == nil {
		t.Fatal("Cover = nil")
	}
	if string(cover.Data) != jpegBytes {
		t.Errorf("Cover.Data = %q, want %q", cover.Data, jpegBytes)
	}
	// No declared media-type on this path: the type is sniffed.
	if cover.MimeType != "image/jpeg" {
		t.Errorf("Cover.MimeType = %q, want image/jpeg", cover.MimeType)
	}
}

func TestExtractCover_GuideSVG(t *testing.T) {
	page := `<html xmlns="http://www.w3.org/1999/xhtml"><body>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<image width="600" height="800" xlink:href="cover.gif"/>
</svg></body></html>`
	cover := extractTestCover(t, "", "",
		`<reference type="cover" href="cover.xhtml"/>`,
		map[string]string{
			"OEBPS/cover.xhtml": page,
			"OEBPS/cover.gif":   gifBytes,
		})

	if cover == nil {
		t.Fatal("Cover = nil")
	}
	if cover.MimeType != "image/gif" {
		t.Errorf("Cover.MimeType = %q, want image/gif", cover.MimeType)
	}
}

func TestExtractCover_StrategyOrder(t *testing.T) {
	cover := extractTestCover(t,
		`<meta name="cover" content="meta-img"/>`,
		`<item id="meta-img" href="meta.jpg" media-type="image/jpeg"/>
<item id="prop-img" href="prop.png" media-type="image/png" properties="cover-image"/>`,
		"",
		map[string]string{
			"OEBPS/meta.jpg": jpegBytes,
			"OEBPS/prop.png": pngBytes,
		})

	if cover == nil {
		t.Fatal("Cover = nil")
	}
	if string(cover.Data) != jpegBytes {
		t.Errorf("Cover.Data = %q, want the meta cover", cover.Data)
	}
}

func TestExtractCover_FallsThroughUnreadable(t *testing.T) {
	// The meta cover points at an image missing from the archive.
	cover := extractTestCover(t,
		`<meta name="cover" content="meta-img"/>`,
		`<item id="meta-img" href="missing.jpg" media-type="image/jpeg"/>
<item id="prop-img" href="prop.png" media-type="image/png" properties="cover-image"/>`,
		"",
		map[string]string{"OEBPS/prop.png": pngBytes})

	if cover == nil {
		t.Fatal("Cover = nil, want fallback to cover-image property")
	}
	if string(cover.Data) != pngBytes {
		t.Errorf("Cover.Data = %q, want %q", cover.Data, pngBytes)
	}
}

func TestExtractCover_None(t *testing.T) {
	cover := extractTestCover(t,
		`<meta name="cover" content="ghost"/>`,
		`<item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>`,
		`<reference type="cover" href="missing.xhtml"/>`,
		nil)
	if cover != nil {
		t.Errorf("Cover = %+v, want nil", cover)
	}
}

func TestResolveCoverMIME(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		data     string
		want     string
	}{
		{"declared wins over sniff", "image/png", gifBytes, "image/png"},
		{"sniff jpeg", "", jpegBytes, "image/jpeg"},
		{"sniff png", "", pngBytes, "image/png"},
		{"sniff gif", "", gifBytes, "image/gif"},
		{"sniff webp", "", "RIFF\x24\x00\x00\x00WEBPVP8 ", "image/webp"},
		{"blank declared sniffs", "  ", jpegBytes, "image/jpeg"},
		{"unknown bytes", "", "BM\x00\x00\x00\x00", octetStream},
		{"too short", "", "\xFF\xD8", octetStream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCoverMIME(tt.declared, []byte(tt.data)); got != tt.want {
				t.Errorf("resolveCoverMIME(%q) = %q, want %q", tt.declared, got, tt.want)
			}
		})
	}
}

func TestCover_Extension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               "jpg",
		"image/png":                "png",
		"image/gif":                "gif",
		"image/webp":               "webp",
		"image/svg+xml":            "jpg",
		"application/octet-stream": "jpg",
		"":                         "jpg",
	}
	for mime, want := range tests {
		if got := (Cover{MimeType: mime}).Extension(); got != want {
			t.Errorf("Cover{MimeType: %q}.Extension() = %q, want %q", mime, got, want)
		}
	}
}

func TestCover_EqualAndHash(t *testing.T) {
	a := Cover{Data: []byte(jpegBytes), MimeType: "image/jpeg"}
	b := Cover{Data: []byte(jpegBytes), MimeType: "image/jpeg"}
	c := Cover{Data: []byte(jpegBytes), MimeType: "image/png"}
	d := Cover{Data: []byte(pngBytes), MimeType: "image/jpeg"}

	if !a.Equal(b) {
		t.Error("Equal() = false for identical covers")
	}
	if a.Hash() != b.Hash() {
		t.Error("Hash() differs for equal covers")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Error("Equal() = true for differing covers")
	}
	if a.Hash() == c.Hash() {
		t.Error("Hash() ignores MIME type")
	}
}

func TestFindFirstImageSrc(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"img", `<body><p>x</p><img src="a.jpg"/><img src="b.jpg"/></body>`, "a.jpg"},
		{"img without src skipped", `<body><img alt="x"/><img src="b.jpg"/></body>`, "b.jpg"},
		{"svg href", `<svg><image href="c.png"/></svg>`, "c.png"},
		{"svg xlink href", `<svg><image xlink:href="d.png"/></svg>`, "d.png"},
		{"none", `<body><p>no image</p></body>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findFirstImageSrc(tt.page); got != tt.want {
				t.Errorf("findFirstImageSrc() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCover_RootedHref(t *testing.T) {
	cover := extractTestCover(t,
		`<meta name="cover" content="cover-img"/>`,
		`<item id="cover-img" href="/cover.jpg" media-type="image/jpeg"/>`,
		"",
		map[string]string{"OEBPS/cover.jpg": jpegBytes})

	if cover == nil {
		t.Fatal("Cover = nil, want image joined onto the package directory")
	}
	if string(cover.Data) != jpegBytes {
		t.Errorf("Cover.Data = %q, want %q", cover.Data, jpegBytes)
	}
}

package bookparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// findFirstImageSrc returns the src of the first <img> element in an HTML
// page, or the href of the first SVG <image> if that comes first. The value
// is returned unresolved; "" means no image.
func findFirstImageSrc(page string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			if !hasAttr {
				continue
			}
			a := atom.Lookup(tn)
			if a != atom.Img && a != atom.Image {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				k := string(key)
				if a == atom.Img && k == "src" && len(val) > 0 {
					return string(val)
				}
				// SVG cover pages wrap the image as <image xlink:href="...">.
				if a == atom.Image && (k == "href" || k == "xlink:href") && len(val) > 0 {
					return string(val)
				}
				if !more {
					break
				}
			}
		}
	}
}

// chapterTitleSelectors are tried in order when titling a chapter.
var chapterTitleSelectors = []string{"title", "h1", "h2"}

// findChapterTitle returns the first non-blank <title>, <h1> or <h2> text
// of a chapter document, whitespace-normalised. "" means none was found.
func findChapterTitle(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}
	for _, sel := range chapterTitleSelectors {
		found := ""
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = collapseSpace(s.Text())
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// collapseSpace trims s and replaces internal whitespace runs with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

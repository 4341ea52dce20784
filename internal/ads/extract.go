package ads

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Upstream markup is third-party and unstable, so extraction works through
// ordered fallback strategy tables rather than fixed branching. Markup-format
// drift is handled by adding entries.
var (
	// titleMatchers are evaluated as one combined set; the first matching
	// node in document order wins.
	titleMatchers = []string{"h5 a", "h6 a", "strong", "span.fsl"}

	// messageMatchers are evaluated in priority order; for each, the
	// serialized markup of every match is concatenated and the first
	// non-empty concatenation wins. Serialization preserves inner markup
	// so consumers can re-render the fragment.
	messageMatchers = []string{".userContent p", "div.mbs", "span"}
)

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// ExtractContent derives title, message, thumbnail, and gallery from a parsed
// ad document. All fields except the gallery are required.
func ExtractContent(doc *goquery.Document) (Content, error) {
	title, err := extractTitle(doc)
	if err != nil {
		return Content{}, err
	}

	thumbnail, err := extractThumbnail(doc)
	if err != nil {
		return Content{}, err
	}

	message, err := extractMessage(doc)
	if err != nil {
		return Content{}, err
	}

	return Content{
		Title:     title,
		Message:   message,
		Thumbnail: thumbnail,
		Gallery:   extractGallery(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) (string, error) {
	sel := doc.Find(strings.Join(titleMatchers, ", ")).First()
	if sel.Length() == 0 {
		return "", extractionErr("title")
	}
	return sel.Text(), nil
}

func extractThumbnail(doc *goquery.Document) (string, error) {
	src, ok := doc.Find("img").First().Attr("src")
	if !ok {
		return "", extractionErr("image")
	}
	return src, nil
}

// extractGallery returns every image source except the first, which is
// reserved as the thumbnail. Images without a source are dropped; an empty
// gallery is valid.
func extractGallery(doc *goquery.Document) []string {
	gallery := make([]string, 0)
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		if src, ok := s.Attr("src"); ok {
			gallery = append(gallery, src)
		}
	})
	return gallery
}

func extractMessage(doc *goquery.Document) (string, error) {
	for _, matcher := range messageMatchers {
		var b strings.Builder
		doc.Find(matcher).Each(func(_ int, s *goquery.Selection) {
			if html, err := goquery.OuterHtml(s); err == nil {
				b.WriteString(html)
			}
		})
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", extractionErr("message")
}

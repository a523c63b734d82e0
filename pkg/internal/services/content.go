package services

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const TruncateContentThreshold = 160

func TruncateContent(content string, length int) string {
	if len([]rune(content)) > length {
		return string([]rune(content)[:length]) + "..."
	}
	return content
}

// ExtractText strips the markup of an HTML fragment, keeping the readable text.
func ExtractText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func NewExcerpt(content string) string {
	return TruncateContent(ExtractText(content), TruncateContentThreshold)
}

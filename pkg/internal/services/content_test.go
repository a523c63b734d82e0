package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateContent(t *testing.T) {
	assert.Equal(t, "court", TruncateContent("court", 10))
	assert.Equal(t, "élève...", TruncateContent("élèves du quartier", 5))
}

func TestExtractText(t *testing.T) {
	text := ExtractText("<h1>Potager</h1>\n<script>alert(1)</script>\n<p>Semez  les\n radis</p>")
	assert.Equal(t, "Potager Semez les radis", text)
}

func TestNewExcerpt(t *testing.T) {
	excerpt := NewExcerpt("<p>" + strings.Repeat("a", TruncateContentThreshold+20) + "</p>")
	assert.Len(t, []rune(excerpt), TruncateContentThreshold+3)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("Fix the lockers")
	assert.Contains(t, result, "Fix the lockers")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**please** fix the heating")
	assert.Contains(t, result, "<strong>please</strong>")
}

func TestRenderMarkdown_HardWraps(t *testing.T) {
	result := RenderMarkdown("line one\nline two")
	assert.Contains(t, result, "<br")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[survey](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "survey</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesEventHandlers(t *testing.T) {
	result := RenderMarkdown(`<img src="x" onerror="alert(1)">`)
	assert.NotContains(t, result, "onerror")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~free parking~~")
	assert.Contains(t, result, "<del>free parking</del>")
}

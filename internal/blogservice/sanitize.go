package blogservice

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = bluemonday.UGCPolicy()
)

func sanitizeMarkdown(markdown string) string {
	return scriptTagPattern.ReplaceAllString(markdown, "")
}

// renderHTML converts stored markdown into HTML safe to embed in the page.
func renderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}

	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

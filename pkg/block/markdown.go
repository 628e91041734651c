package block

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

var funcs = template.FuncMap{
	"markdown": renderMarkdown,
}

// renderMarkdown converts a Markdown field value into sanitized HTML.
func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "failed to convert markdown")
	}
	// #nosec G203 -- sanitized by bluemonday
	return template.HTML(bytes.TrimSpace(sanitizer.SanitizeBytes(buf.Bytes()))), nil
}

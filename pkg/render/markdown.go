package render

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/pkg/errors"

	"github.com/stateful/launchpad/pkg/document"
)

func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
}

// Markdown converts the clean content of doc to Markdown.
func (r *Renderer) Markdown(doc document.Blocks) (string, error) {
	result, err := newMarkdownConverter().ConvertString(r.Body(doc))
	if err != nil {
		return "", errors.Wrap(err, "failed to convert to markdown")
	}
	return result, nil
}

package pages

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts marketing-page markdown to HTML. Relative image
// references are rewritten to the public media route so page authors can
// name bucket keys directly.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds the goldmark pipeline. mediaRoute is the URL prefix
// the rewritten image destinations point at, e.g. "/media".
func NewRenderer(mediaRoute string) *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
			emoji.Emoji,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithGuessLanguage(true),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&mediaTransformer{route: mediaRoute}, 100)),
		),
	)
	return &Renderer{engine: engine}
}

func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	// html output runs larger than the markdown source
	buf.Grow(len(source) + (len(source) / 2))

	if err := r.engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMDConversion, err)
	}

	return bytes.Clone(buf.Bytes()), nil
}

type mediaTransformer struct {
	route string
}

func (t *mediaTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		dest := string(img.Destination)
		if isExternalLink(dest) || strings.HasPrefix(dest, "/") {
			return ast.WalkContinue, nil
		}

		newPath, err := url.JoinPath(t.route, dest)
		if err != nil {
			return ast.WalkContinue, err
		}
		img.Destination = []byte(newPath)

		return ast.WalkContinue, nil
	})
}

func isExternalLink(s string) bool {
	s = strings.ToLower(s)
	for _, prefix := range []string{"http:", "https:", "ftp:"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Configures the markdown converter and embed routing
package parser

import (
	"fmt"
	"strings"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ConverterOptions configures a Converter.
type ConverterOptions struct {
	EmbedOrigin  string
	AllowRawHTML bool
	Minify       bool
}

// Converter renders markdown bodies to HTML. It is safe for concurrent use.
type Converter struct {
	md     goldmark.Markdown
	minify bool
}

func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		langBytes, _ := c.Language()
		lang := string(langBytes)
		if lang == "" {
			lang = "text"
		}
		_, _ = w.WriteString(`<div class="code-wrapper" data-lang="` + lang + `">`)
	} else {
		_, _ = w.WriteString(`</div>`)
	}
}

// NewConverter builds the goldmark pipeline used for every post.
func NewConverter(opts ConverterOptions) *Converter {
	rendererOpts := []renderer.Option{}
	if opts.AllowRawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("nord"),
				highlighting.WithFormatOptions(
					chroma_html.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
			passthrough.New(passthrough.Config{
				InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
				BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
			}),
			&embedExtension{origin: strings.TrimSuffix(opts.EmbedOrigin, "/")},
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&linkTransformer{}, 200),
			),
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Converter{md: md, minify: opts.Minify}
}

// Convert renders body. A panic inside the markdown engine is returned as an error
// so one bad post cannot take down the build.
func (c *Converter) Convert(body string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown conversion panicked: %v", r)
		}
	}()

	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)

	if err := c.md.Convert([]byte(body), buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	out = buf.String()

	if c.minify {
		minified, err := utils.MinifyHTML(out)
		if err != nil {
			return "", fmt.Errorf("minify html: %w", err)
		}
		out = minified
	}
	return out, nil
}

// linkTransformer opens external links in a new tab and lazy-loads images.
type linkTransformer struct{}

func (t *linkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Link:
			if isExternal(string(target.Destination)) {
				target.SetAttribute([]byte("target"), []byte("_blank"))
				target.SetAttribute([]byte("rel"), []byte("noopener noreferrer"))
			}
		case *ast.Image:
			target.SetAttribute([]byte("loading"), []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

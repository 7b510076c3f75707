package parser

import (
	"encoding/hex"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"github.com/zeebo/blake3"
)

// Embed types rendered through the embed origin.
const (
	EmbedCard        = "card"
	EmbedTweet       = "tweet"
	EmbedYouTube     = "youtube"
	EmbedGitHub      = "github"
	EmbedGist        = "gist"
	EmbedCodePen     = "codepen"
	EmbedCodeSandbox = "codesandbox"
	EmbedStackBlitz  = "stackblitz"
	EmbedJSFiddle    = "jsfiddle"
	EmbedSpeakerDeck = "speakerdeck"
	EmbedSlideShare  = "slideshare"
	EmbedFigma       = "figma"
	EmbedMermaid     = "mermaid"
)

var knownEmbeds = map[string]bool{
	EmbedCard: true, EmbedTweet: true, EmbedYouTube: true, EmbedGitHub: true,
	EmbedGist: true, EmbedCodePen: true, EmbedCodeSandbox: true, EmbedStackBlitz: true,
	EmbedJSFiddle: true, EmbedSpeakerDeck: true, EmbedSlideShare: true, EmbedFigma: true,
	EmbedMermaid: true,
}

var (
	embedDirective = regexp.MustCompile(`^@\[([a-z]+)\]\((\S+)\)$`)
	bareURL        = regexp.MustCompile(`^https?://\S+$`)
)

// KindEmbed is the node kind of an Embed.
var KindEmbed = ast.NewNodeKind("Embed")

// Embed is third-party content rendered by the embed origin instead of inline.
type Embed struct {
	ast.BaseBlock
	EmbedType string
	Content   string
}

func (n *Embed) Kind() ast.NodeKind {
	return KindEmbed
}

func (n *Embed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"EmbedType": n.EmbedType,
		"Content":   n.Content,
	}, nil)
}

// EmbedID is the element id of an embed frame, stable for equal content.
func EmbedID(content string) string {
	sum := blake3.Sum256([]byte(content))
	return "embedded__" + hex.EncodeToString(sum[:8])
}

// encodeEmbedContent percent-encodes like encodeURIComponent so the embed
// origin can decode it without treating '+' as a space.
func encodeEmbedContent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// embedTransformer replaces standalone embed lines and mermaid fences with Embed nodes.
type embedTransformer struct{}

func (t *embedTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	type replacement struct {
		old   ast.Node
		embed *Embed
	}
	var pending []replacement

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Paragraph:
			if e := paragraphEmbed(node, source); e != nil {
				pending = append(pending, replacement{node, e})
			}
		case *ast.FencedCodeBlock:
			if string(node.Language(source)) != EmbedMermaid {
				continue
			}
			var code strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				code.Write(seg.Value(source))
			}
			pending = append(pending, replacement{node, &Embed{EmbedType: EmbedMermaid, Content: code.String()}})
		}
	}

	for _, r := range pending {
		doc.ReplaceChild(doc, r.old, r.embed)
	}
}

func paragraphEmbed(p *ast.Paragraph, source []byte) *Embed {
	lines := p.Lines()
	if lines.Len() != 1 {
		return nil
	}
	seg := lines.At(0)
	line := strings.TrimSpace(string(seg.Value(source)))

	if m := embedDirective.FindStringSubmatch(line); m != nil {
		if !knownEmbeds[m[1]] {
			return nil
		}
		return &Embed{EmbedType: m[1], Content: m[2]}
	}
	if bareURL.MatchString(line) {
		u, err := url.Parse(line)
		if err != nil || u.Host == "" {
			return nil
		}
		return &Embed{EmbedType: classifyURL(u), Content: line}
	}
	return nil
}

// classifyURL picks the embed type for a bare URL on its own line.
func classifyURL(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case (host == "twitter.com" || host == "x.com") && strings.Contains(u.Path, "/status/"):
		return EmbedTweet
	case host == "youtube.com" || host == "youtu.be" || host == "m.youtube.com":
		return EmbedYouTube
	case host == "gist.github.com":
		return EmbedGist
	default:
		return EmbedCard
	}
}

type embedRenderer struct {
	origin string
}

func (r *embedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEmbed, r.renderEmbed)
}

func (r *embedRenderer) renderEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Embed)
	id := EmbedID(n.Content)

	_, _ = w.WriteString(`<span class="embed-block embed-` + n.EmbedType + `">`)
	_, _ = w.WriteString(`<iframe id="` + id + `" class="embedded-` + n.EmbedType + `"`)
	_, _ = w.WriteString(` data-embed-type="` + n.EmbedType + `"`)
	_, _ = w.WriteString(` src="` + html.EscapeString(r.origin+"/"+n.EmbedType) + `#` + id + `"`)
	_, _ = w.WriteString(` data-content="` + encodeEmbedContent(n.Content) + `"`)
	_, _ = w.WriteString(` frameborder="0" scrolling="no" loading="lazy"></iframe></span>` + "\n")
	return ast.WalkSkipChildren, nil
}

// embedExtension routes third-party content through origin.
type embedExtension struct {
	origin string
}

func (e *embedExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&embedTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&embedRenderer{origin: e.origin}, 100),
	))
}

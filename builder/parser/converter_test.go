package parser

import (
	"reflect"
	"strings"
	"testing"
)

const testOrigin = "https://embed.example.com"

func newTestConverter() *Converter {
	return NewConverter(ConverterOptions{EmbedOrigin: testOrigin})
}

func TestConvertBasicMarkdown(t *testing.T) {
	html, err := newTestConverter().Convert("## Hello\n\nSome **bold** text and [a link](https://example.com).\n")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	for _, want := range []string{
		`<h2 id="hello">Hello</h2>`,
		"<strong>bold</strong>",
		`target="_blank"`,
		`rel="noopener noreferrer"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestConvertOmitsRawHTML(t *testing.T) {
	body := "<script>alert(1)</script>\n\ntext\n"

	safe, err := newTestConverter().Convert(body)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if strings.Contains(safe, "<script>") {
		t.Errorf("raw html should be omitted by default:\n%s", safe)
	}

	unsafe, err := NewConverter(ConverterOptions{EmbedOrigin: testOrigin, AllowRawHTML: true}).Convert(body)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(unsafe, "<script>") {
		t.Errorf("raw html should pass through when allowed:\n%s", unsafe)
	}
}

func TestConvertEmbeds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantSrc  string
	}{
		{
			name:     "card directive",
			input:    "@[card](https://example.com/article)\n",
			wantType: EmbedCard,
			wantSrc:  testOrigin + "/card#",
		},
		{
			name:     "bare url",
			input:    "https://example.com/page\n",
			wantType: EmbedCard,
			wantSrc:  testOrigin + "/card#",
		},
		{
			name:     "tweet url",
			input:    "https://twitter.com/user/status/123\n",
			wantType: EmbedTweet,
			wantSrc:  testOrigin + "/tweet#",
		},
		{
			name:     "mermaid fence",
			input:    "```mermaid\ngraph TD; A-->B\n```\n",
			wantType: EmbedMermaid,
			wantSrc:  testOrigin + "/mermaid#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := newTestConverter().Convert(tt.input)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if !strings.Contains(html, `data-embed-type="`+tt.wantType+`"`) {
				t.Errorf("expected %s embed in:\n%s", tt.wantType, html)
			}
			if !strings.Contains(html, `src="`+tt.wantSrc) {
				t.Errorf("expected src %q in:\n%s", tt.wantSrc, html)
			}
			if strings.Contains(html, "<script") {
				t.Errorf("embeds must not inline scripts:\n%s", html)
			}
		})
	}
}

func TestConvertLeavesInlineURLs(t *testing.T) {
	html, err := newTestConverter().Convert("See https://example.com for details.\n")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if strings.Contains(html, "<iframe") {
		t.Errorf("a url inside a sentence is not an embed:\n%s", html)
	}
}

func TestConvertUnknownDirective(t *testing.T) {
	html, err := newTestConverter().Convert("@[unknown](https://example.com)\n")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if strings.Contains(html, "<iframe") {
		t.Errorf("unknown embed types stay as text:\n%s", html)
	}
}

func TestConvertHighlightsCode(t *testing.T) {
	html, err := newTestConverter().Convert("```go\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(html, `class="code-wrapper" data-lang="go"`) {
		t.Errorf("expected code wrapper in:\n%s", html)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Errorf("expected class-based highlighting in:\n%s", html)
	}
}

func TestConvertKeepsMath(t *testing.T) {
	html, err := newTestConverter().Convert("Inline $a_1 * b_2$ math.\n")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(html, "$a_1 * b_2$") {
		t.Errorf("math should pass through verbatim:\n%s", html)
	}
}

func TestConvertMinify(t *testing.T) {
	c := NewConverter(ConverterOptions{EmbedOrigin: testOrigin, Minify: true})
	body := "# Title\n\nparagraph\n\n- a\n- b\n"
	minified, err := c.Convert(body)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	plain, err := newTestConverter().Convert(body)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(minified) >= len(plain) {
		t.Errorf("minified html should be shorter:\n%q\n%q", minified, plain)
	}
}

func TestEmbedIDStable(t *testing.T) {
	a := EmbedID("https://example.com")
	if a != EmbedID("https://example.com") {
		t.Error("EmbedID should be deterministic")
	}
	if a == EmbedID("https://example.org") {
		t.Error("EmbedID should differ for different content")
	}
	if !strings.HasPrefix(a, "embedded__") {
		t.Errorf("unexpected id %q", a)
	}
}

func TestExtractEmbedURLs(t *testing.T) {
	body := strings.Join([]string{
		"@[card](https://example.com/a?x=1&y=2)",
		"",
		"https://example.com/b",
		"",
		"@[card](https://example.com/a?x=1&y=2)",
		"",
		"https://www.youtube.com/watch?v=abc",
		"",
		"@[codesandbox](https://codesandbox.io/embed/xyz)",
		"",
		"@[card](https://stackblitz.com/edit/demo)",
		"",
		"```mermaid",
		"graph TD; A-->B",
		"```",
		"",
	}, "\n")

	html, err := newTestConverter().Convert(body)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	got := ExtractEmbedURLs(html)
	want := []string{"https://example.com/a?x=1&y=2", "https://example.com/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEmbedURLs = %v, want %v", got, want)
	}
}

func TestExtractEmbedURLsNoEmbeds(t *testing.T) {
	if got := ExtractEmbedURLs("<p>plain</p>"); len(got) != 0 {
		t.Errorf("expected no urls, got %v", got)
	}
}

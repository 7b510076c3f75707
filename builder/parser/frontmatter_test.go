package parser

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle interface{}
		wantBody  string
		hasHeader bool
	}{
		{
			name:      "header and body",
			input:     "---\ntitle: Hello\n---\n\nBody text\n",
			wantTitle: "Hello",
			wantBody:  "Body text\n",
			hasHeader: true,
		},
		{
			name:      "no header",
			input:     "# Just markdown\n",
			wantTitle: nil,
			wantBody:  "# Just markdown\n",
		},
		{
			name:      "empty header",
			input:     "---\n---\ncontent",
			wantTitle: nil,
			wantBody:  "content",
			hasHeader: true,
		},
		{
			name:      "crlf line endings",
			input:     "---\r\ntitle: Windows\r\n---\r\nBody\r\n",
			wantTitle: "Windows",
			wantBody:  "Body\r\n",
			hasHeader: true,
		},
		{
			name:      "byte order mark",
			input:     "\ufeff---\ntitle: BOM\n---\nBody",
			wantTitle: "BOM",
			wantBody:  "Body",
			hasHeader: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseFrontmatter("post.md", []byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Frontmatter == nil {
				t.Fatal("frontmatter map should never be nil")
			}
			if got := doc.Frontmatter["title"]; got != tt.wantTitle {
				t.Errorf("title = %v, want %v", got, tt.wantTitle)
			}
			if doc.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", doc.Body, tt.wantBody)
			}
			if doc.HasHeader != tt.hasHeader {
				t.Errorf("HasHeader = %v, want %v", doc.HasHeader, tt.hasHeader)
			}
		})
	}
}

func TestParseFrontmatterErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "unterminated",
			input:   "---\ntitle: Hello\nno closing line\n",
			wantErr: ErrUnterminatedFrontmatter,
		},
		{
			name:  "invalid yaml",
			input: "---\ntitle: [unclosed\n---\nbody\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFrontmatter("content/blog/bad.md", []byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Path != "content/blog/bad.md" {
				t.Errorf("ParseError.Path = %q", perr.Path)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(afero.NewMemMapFs(), "missing.md")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError for unreadable file, got %v", err)
	}
}

func TestParseFrontmatterKeepsTypes(t *testing.T) {
	doc, err := ParseFrontmatter("p.md", []byte("---\ntags: [a, b]\npublished: false\ncount: 3\n---\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Frontmatter["tags"].([]interface{}); !ok {
		t.Errorf("tags should decode as a list, got %T", doc.Frontmatter["tags"])
	}
	if v, ok := doc.Frontmatter["published"].(bool); !ok || v {
		t.Errorf("published should decode as false, got %#v", doc.Frontmatter["published"])
	}
	if _, ok := doc.Frontmatter["count"].(int); !ok {
		t.Errorf("count should decode as int, got %T", doc.Frontmatter["count"])
	}
}

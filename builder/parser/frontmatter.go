package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/models"
)

const frontmatterDelimiter = "---"

// ErrUnterminatedFrontmatter means an opening "---" had no closing line.
var ErrUnterminatedFrontmatter = errors.New("frontmatter: missing closing ---")

// ParseError is a failure to read or split a single markdown file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile reads path from fs and splits it into header and body.
func ParseFile(fs afero.Fs, path string) (models.Document, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return models.Document{}, &ParseError{Path: path, Err: err}
	}
	return ParseFrontmatter(path, raw)
}

// ParseFrontmatter splits raw into a YAML header and a markdown body.
// A document without a leading "---" line has an empty header and is all body.
func ParseFrontmatter(path string, raw []byte) (models.Document, error) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	text := string(raw)

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return models.Document{Path: path, Frontmatter: models.Frontmatter{}, Body: text}, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return models.Document{}, &ParseError{Path: path, Err: ErrUnterminatedFrontmatter}
	}

	header := strings.Join(lines[1:end], "\n")
	fm := models.Frontmatter{}
	if strings.TrimSpace(header) != "" {
		var decoded map[string]interface{}
		if err := yaml.Unmarshal([]byte(header), &decoded); err != nil {
			return models.Document{}, &ParseError{Path: path, Err: fmt.Errorf("frontmatter: %w", err)}
		}
		for k, v := range decoded {
			fm[k] = v
		}
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")

	return models.Document{Path: path, Frontmatter: fm, Body: body, HasHeader: true}, nil
}

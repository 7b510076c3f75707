// defines the data structures produced by the content pipeline and consumed by the site
package models

import "fmt"

// Frontmatter is the loosely-typed header of a markdown document.
type Frontmatter map[string]interface{}

// Document is a raw markdown file split into its header and body.
type Document struct {
	Path        string
	Frontmatter Frontmatter
	Body        string
	HasHeader   bool
}

// Post is one markdown file after extraction.
type Post struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Date      string   `json:"date"`
	Tags      []string `json:"tags"`
	ReadTime  string   `json:"readTime"`
	Content   string   `json:"content"`
	HTML      string   `json:"html,omitempty"`
	Published bool     `json:"-"`

	// Source file the post was read from; never serialized.
	Path string `json:"-"`
}

// Summary strips the body fields for the metadata artifact.
func (p Post) Summary() PostSummary {
	return PostSummary{
		ID:       p.ID,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Date:     p.Date,
		Tags:     p.Tags,
		ReadTime: p.ReadTime,
	}
}

// PostSummary is a Post without content, as listed in blog-metadata.json.
type PostSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	ReadTime string   `json:"readTime"`
}

// ValidationError is a data-quality problem attributed to one file and field.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s [%s]: %s", e.File, e.Field, e.Message)
}

// TagCount represents a tag and its frequency across published posts.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// BlogArchive is a (year, month) bucket of published posts.
type BlogArchive struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// Aggregates holds the derived metadata computed from published posts.
type Aggregates struct {
	TagCounts []TagCount
	Archives  []BlogArchive
}

// BlogMetadata is the blog-metadata.json artifact.
type BlogMetadata struct {
	Posts     []PostSummary `json:"posts"`
	Archives  []BlogArchive `json:"archives"`
	TagCounts []TagCount    `json:"tagCounts"`
}

// OGPData is the link-preview metadata of one external URL.
// Absent fields mean the remote page had no corresponding tag.
type OGPData struct {
	URL         string `json:"url" msgpack:"url"`
	Title       string `json:"title,omitempty" msgpack:"title,omitempty"`
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
	Image       string `json:"image,omitempty" msgpack:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty" msgpack:"site_name,omitempty"`
	Favicon     string `json:"favicon,omitempty" msgpack:"favicon,omitempty"`
}

// IsEmpty reports whether only the URL is known.
func (o OGPData) IsEmpty() bool {
	return o.Title == "" && o.Description == "" && o.Image == "" && o.SiteName == "" && o.Favicon == ""
}

package utils

const (
	// MaxBufferSize caps pooled buffers; larger ones are dropped.
	MaxBufferSize = 64 * 1024

	// DateLayout is the only accepted post date format.
	DateLayout = "2006-01-02"

	// MarkdownExt is the extension of post sources.
	MarkdownExt = ".md"
)

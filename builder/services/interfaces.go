package services

import (
	"context"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// LoadResult contains the posts that passed validation and every error found.
type LoadResult struct {
	Posts  []models.Post
	Errors []models.ValidationError
	Files  int
}

// PostService discovers, validates and converts markdown posts
type PostService interface {
	Discover() ([]string, error)
	Load(ctx context.Context, files []string) (*LoadResult, error)
	Convert(ctx context.Context, posts []models.Post) ([]models.ValidationError, error)
}

// CacheService abstracts the on-disk cache shared between builds
type CacheService interface {
	GetHTML(key string) (string, bool, error)
	PutHTML(key, html string) error
	GetOGP(url string, now time.Time) (models.OGPData, bool, error)
	PutOGP(data models.OGPData, now time.Time, ttl time.Duration) error
	PruneOGP(now time.Time) (int, error)
	RecordBuild(now time.Time) error
	Close() error
}

// RenderService turns markdown bodies into HTML
type RenderService interface {
	Render(body string) (html string, cached bool, err error)
}

// Artifacts is the full output of a successful build.
type Artifacts struct {
	Posts    []models.Post
	Metadata models.BlogMetadata
	OGP      map[string]models.OGPData
}

// ArtifactService persists build artifacts
type ArtifactService interface {
	Write(a Artifacts) ([]string, error)
}

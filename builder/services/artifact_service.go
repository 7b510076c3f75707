package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Artifact file names inside the output directory.
const (
	PostsFile    = "blog-posts.json"
	MetadataFile = "blog-metadata.json"
	OGPFile      = "ogp-data.json"
)

type artifactServiceImpl struct {
	cfg    *config.Config
	destFs afero.Fs
	logger *slog.Logger
}

func NewArtifactService(cfg *config.Config, destFs afero.Fs, logger *slog.Logger) ArtifactService {
	return &artifactServiceImpl{
		cfg:    cfg,
		destFs: destFs,
		logger: logger,
	}
}

// Write encodes and writes the three artifacts, returning their paths.
// With atomic writes every file is staged before any of them is renamed.
func (s *artifactServiceImpl) Write(a Artifacts) ([]string, error) {
	posts := a.Posts
	if posts == nil {
		posts = []models.Post{}
	}
	ogp := a.OGP
	if ogp == nil {
		ogp = map[string]models.OGPData{}
	}

	outputs := []struct {
		name  string
		value interface{}
	}{
		{PostsFile, posts},
		{MetadataFile, a.Metadata},
		{OGPFile, ogp},
	}

	if err := s.destFs.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", s.cfg.OutputDir, err)
	}

	encoded := make([][]byte, len(outputs))
	paths := make([]string, len(outputs))
	for i, out := range outputs {
		data, err := EncodeJSON(out.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", out.name, err)
		}
		encoded[i] = data
		paths[i] = filepath.Join(s.cfg.OutputDir, out.name)
	}

	if !s.cfg.Pipeline.AtomicWrites {
		for i, path := range paths {
			if err := utils.WriteFileVFS(s.destFs, path, encoded[i]); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
		}
		return paths, nil
	}

	staged := make([]string, 0, len(paths))
	for i, path := range paths {
		tmp, err := utils.StageFile(s.destFs, path, encoded[i])
		if err != nil {
			for _, t := range staged {
				_ = s.destFs.Remove(t)
			}
			return nil, err
		}
		staged = append(staged, tmp)
	}
	for i, tmp := range staged {
		if err := utils.CommitFile(s.destFs, tmp, paths[i]); err != nil {
			for _, t := range staged[i+1:] {
				_ = s.destFs.Remove(t)
			}
			return nil, err
		}
		s.logger.Debug("wrote artifact", "path", paths[i], "bytes", len(encoded[i]))
	}
	return paths, nil
}

// EncodeJSON renders v as two-space indented JSON without HTML escaping.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

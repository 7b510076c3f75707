package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/services"
)

// Snapshot is one consistent view of the three artifacts.
type Snapshot struct {
	Posts    []models.Post
	Metadata models.BlogMetadata
	OGP      map[string]models.OGPData
	byID     map[string]int
}

// LoadSnapshot reads the artifacts written by the last successful build.
func LoadSnapshot(fs afero.Fs, dir string) (*Snapshot, error) {
	s := &Snapshot{}
	files := []struct {
		name string
		v    interface{}
	}{
		{services.PostsFile, &s.Posts},
		{services.MetadataFile, &s.Metadata},
		{services.OGPFile, &s.OGP},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, f.v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	s.byID = make(map[string]int, len(s.Posts))
	for i, p := range s.Posts {
		s.byID[p.ID] = i
	}
	return s, nil
}

// Post looks a post up by id.
func (s *Snapshot) Post(id string) (models.Post, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Post{}, false
	}
	return s.Posts[i], true
}

// PostsByTag returns the posts carrying tag, or all posts when tag is empty.
func (s *Snapshot) PostsByTag(tag string) []models.Post {
	if tag == "" {
		return s.Posts
	}
	out := []models.Post{}
	for _, p := range s.Posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := services.EncodeJSON(v)
	if err != nil {
		s.logger.Error("encode response failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) load(w http.ResponseWriter) (*Snapshot, bool) {
	snap, err := s.snapshot.Get()
	if err != nil {
		s.logger.Warn("artifacts unavailable", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "blog data has not been built yet"})
		return nil, false
	}
	return snap, true
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap.PostsByTag(r.URL.Query().Get("tag")))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w)
	if !ok {
		return
	}
	post, found := snap.Post(r.PathValue("id"))
	if !found {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "post not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap.Metadata)
}

// handleOGP answers from the build's link previews only; it never fetches.
func (s *Server) handleOGP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if u, err := url.Parse(raw); raw == "" || err != nil || u.Host == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "url parameter must be an absolute URL"})
		return
	}
	snap, ok := s.load(w)
	if !ok {
		return
	}
	data, found := snap.OGP[raw]
	if !found {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "no link preview for url"})
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

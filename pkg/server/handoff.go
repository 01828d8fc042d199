package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/posterkit/pkg/observability"
	"github.com/matzehuels/posterkit/pkg/pipeline"
	"github.com/matzehuels/posterkit/pkg/sink"
)

// metaFormat is the pseudo-format under which a hand-off's metadata is
// stored next to its artifacts.
const metaFormat = "meta"

type handoffMeta struct {
	Name    string   `json:"name"`
	Formats []string `json:"formats"`
}

// storeHandoff saves every artifact of res under a fresh id.
func (s *Server) storeHandoff(ctx context.Context, res *pipeline.Result) (string, error) {
	id := uuid.NewString()
	meta := handoffMeta{Name: res.Name}
	for format, data := range res.Artifacts {
		if err := s.store.Set(ctx, s.keyer.HandoffKey(id, format), data, s.ttl); err != nil {
			return "", fmt.Errorf("store %s: %w", format, err)
		}
		observability.Cache().OnCacheSet(ctx, "handoff", len(data))
		meta.Formats = append(meta.Formats, format)
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, s.keyer.HandoffKey(id, metaFormat), data, s.ttl); err != nil {
		return "", fmt.Errorf("store metadata: %w", err)
	}
	return id, nil
}

// loadHandoff returns one artifact and its suggested file name.
func (s *Server) loadHandoff(ctx context.Context, id, format string) ([]byte, string, bool) {
	raw, ok, err := s.store.Get(ctx, s.keyer.HandoffKey(id, metaFormat))
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "handoff")
		return nil, "", false
	}
	var meta handoffMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, "", false
	}
	data, ok, err := s.store.Get(ctx, s.keyer.HandoffKey(id, format))
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "handoff")
		return nil, "", false
	}
	observability.Cache().OnCacheHit(ctx, "handoff")
	return data, meta.Name + "." + format, true
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")
	if _, err := uuid.Parse(id); err != nil || !sink.ValidFormat(format) {
		s.renderError(w, r, http.StatusNotFound, "unknown download")
		return
	}

	data, filename, ok := s.loadHandoff(r.Context(), id, format)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "this download has expired; generate the poster again")
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("Content-Disposition", disposition+"; filename="+strconv.Quote(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, no-store")
	_, _ = w.Write(data)
}

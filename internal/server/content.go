package server

import (
	"encoding/json"
	"net/http"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Content(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleReplaceContent(w http.ResponseWriter, r *http.Request) {
	var doc content.Node
	if err := decodeBody(r, &doc); err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.ReplaceContent(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "replaced"})
}

func (s *Server) handleMergeContent(w http.ResponseWriter, r *http.Request) {
	var patch content.Node
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.MergeContent(r.Context(), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "merged"})
}

type setValueRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	var req setValueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var value content.Node
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidValue, err, "invalid value"))
		return
	}
	if err := s.svc.SetValue(r.Context(), req.Path, value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "set", "path": req.Path})
}

func (s *Server) handleDeleteValue(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidPath, "query parameter 'path' is required"))
		return
	}
	if err := s.svc.DeleteValue(r.Context(), path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "path": path})
}

// decodeBody reads a raw JSON document body into a content node.
// Unlike decodeJSON it allows arbitrary field names.
func decodeBody(r *http.Request, v *content.Node) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

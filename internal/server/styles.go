package server

import (
	"net/http"

	"github.com/skovert/folio/pkg/styles"
)

func (s *Server) handleGetStyles(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Styles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleCSS serves the rendered stylesheet the public site links to.
func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	css, err := s.svc.CSS(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}

func (s *Server) handleSaveStyles(w http.ResponseWriter, r *http.Request) {
	var patch styles.Settings
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.SaveStyles(r.Context(), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skovert/folio/pkg/social"
)

func (s *Server) handleListSocial(w http.ResponseWriter, r *http.Request) {
	links, err := s.svc.SocialLinks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if links == nil {
		links = []social.Link{}
	}
	writeJSON(w, http.StatusOK, links)
}

type socialRequest struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

func (s *Server) handleAddSocial(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := s.svc.AddSocialLink(r.Context(), req.Label, req.URL, req.Icon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleUpdateSocial(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	link := social.Link{
		ID:    chi.URLParam(r, "id"),
		Label: req.Label,
		URL:   req.URL,
		Icon:  req.Icon,
	}
	if err := link.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.UpdateSocialLink(r.Context(), link); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleRemoveSocial(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveSocialLink(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleReorderSocial(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.ReorderSocialLinks(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

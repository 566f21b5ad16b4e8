package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListMPA(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.repo.Catalog.ListMPA(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "list mpa ratings")
		return
	}

	items := make([]mpaPayload, 0, len(ratings))
	for _, m := range ratings {
		items = append(items, mpaPayload{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetMPA(w http.ResponseWriter, r *http.Request) {
	id, ok := s.catalogIDParam(w, r)
	if !ok {
		return
	}

	m, err := s.repo.Catalog.GetMPA(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "get mpa rating")
		return
	}
	s.respondJSON(w, http.StatusOK, mpaPayload{ID: m.ID, Name: m.Name, Description: m.Description})
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.repo.Catalog.ListGenres(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "list genres")
		return
	}

	items := make([]genrePayload, 0, len(genres))
	for _, g := range genres {
		items = append(items, genrePayload{ID: g.ID, Name: g.Name})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := s.catalogIDParam(w, r)
	if !ok {
		return
	}

	g, err := s.repo.Catalog.GetGenre(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "get genre")
		return
	}
	s.respondJSON(w, http.StatusOK, genrePayload{ID: g.ID, Name: g.Name})
}

func (s *Server) catalogIDParam(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id parameter")
		return 0, false
	}
	return int32(id), true
}

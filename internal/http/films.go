package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/filmring/filmring/internal/domain"
	"github.com/filmring/filmring/internal/ranking"
)

const dateFormat = "2006-01-02"

// defaultPopularCount matches the original API default for /films/popular.
const defaultPopularCount = 10

type mpaPayload struct {
	ID          int32  `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type genrePayload struct {
	ID   int32  `json:"id"`
	Name string `json:"name,omitempty"`
}

type filmRequest struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ReleaseDate string         `json:"releaseDate"`
	Duration    int            `json:"duration"`
	MPA         *mpaPayload    `json:"mpa"`
	Genres      []genrePayload `json:"genres"`
}

type filmResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ReleaseDate string         `json:"releaseDate"`
	Duration    int            `json:"duration"`
	MPA         mpaPayload     `json:"mpa"`
	Genres      []genrePayload `json:"genres"`
}

func (r filmRequest) toDomain() (domain.Film, error) {
	releaseDate, err := time.Parse(dateFormat, r.ReleaseDate)
	if err != nil {
		return domain.Film{}, err
	}
	film := domain.Film{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		ReleaseDate: releaseDate,
		Duration:    r.Duration,
	}
	if r.MPA != nil {
		film.MPA = domain.MPARating{ID: r.MPA.ID}
	}
	for _, g := range r.Genres {
		film.Genres = append(film.Genres, domain.Genre{ID: g.ID})
	}
	return film, nil
}

func toFilmResponse(film domain.Film) filmResponse {
	resp := filmResponse{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(dateFormat),
		Duration:    film.Duration,
		MPA: mpaPayload{
			ID:          film.MPA.ID,
			Name:        film.MPA.Name,
			Description: film.MPA.Description,
		},
		Genres: make([]genrePayload, 0, len(film.Genres)),
	}
	for _, g := range film.Genres {
		resp.Genres = append(resp.Genres, genrePayload{ID: g.ID, Name: g.Name})
	}
	return resp
}

func (s *Server) decodeFilm(w http.ResponseWriter, r *http.Request) (domain.Film, bool) {
	var req filmRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return domain.Film{}, false
	}

	film, err := req.toDomain()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "releaseDate must follow YYYY-MM-DD format")
		return domain.Film{}, false
	}
	if err := domain.ValidateFilm(film); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return domain.Film{}, false
	}
	return film, true
}

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	film, ok := s.decodeFilm(w, r)
	if !ok {
		return
	}

	created, err := s.repo.Films.Create(r.Context(), film)
	if err != nil {
		s.respondStoreError(w, err, "create film")
		return
	}
	s.respondJSON(w, http.StatusCreated, toFilmResponse(created))
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	film, ok := s.decodeFilm(w, r)
	if !ok {
		return
	}
	if film.ID <= 0 {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "film id is required for update")
		return
	}

	updated, err := s.repo.Films.Update(r.Context(), film)
	if err != nil {
		s.respondStoreError(w, err, "update film")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponse(updated))
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.repo.Films.ListAll(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "list films")
		return
	}

	items := make([]filmResponse, 0, len(films))
	for _, film := range films {
		items = append(items, toFilmResponse(film))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	film, err := s.repo.Films.GetByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "get film")
		return
	}
	s.respondJSON(w, http.StatusOK, toFilmResponse(film))
}

func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := s.likeParams(w, r)
	if !ok {
		return
	}

	if err := s.repo.Films.AddLike(r.Context(), filmID, userID); err != nil {
		s.respondStoreError(w, err, "add like")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := s.likeParams(w, r)
	if !ok {
		return
	}

	if err := s.repo.Films.RemoveLike(r.Context(), filmID, userID); err != nil {
		s.respondStoreError(w, err, "remove like")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) likeParams(w http.ResponseWriter, r *http.Request) (filmID, userID int64, ok bool) {
	filmID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	userID, err = idParam(r, "userId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	return filmID, userID, true
}

func (s *Server) handlePopularFilms(w http.ResponseWriter, r *http.Request) {
	count := defaultPopularCount
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid count value")
			return
		}
		count = parsed
	}

	films, err := s.repo.Films.ListAll(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "list films for ranking")
		return
	}

	popular := ranking.PopularFilms(films, count)
	items := make([]filmResponse, 0, len(popular))
	for _, film := range popular {
		items = append(items, toFilmResponse(film))
	}
	s.respondJSON(w, http.StatusOK, items)
}

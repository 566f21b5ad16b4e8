package httpserver

import (
	"fmt"
	"net/http"
	"testing"
)

func validFilmRequest() map[string]any {
	return map[string]any{
		"name":        "The General",
		"description": "A locomotive chase.",
		"releaseDate": "1926-12-31",
		"duration":    75,
		"mpa":         map[string]any{"id": 1},
		"genres":      []map[string]any{{"id": 1}},
	}
}

func createFilm(t *testing.T, env *serverEnv, body map[string]any) filmResponse {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/films", body)
	requireStatus(t, rr, http.StatusCreated)
	return decodeBody[filmResponse](t, rr)
}

func createUser(t *testing.T, env *serverEnv, login string) userResponse {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/users", map[string]any{
		"email": login + "@example.com",
		"login": login,
	})
	requireStatus(t, rr, http.StatusCreated)
	return decodeBody[userResponse](t, rr)
}

func TestCreateFilm(t *testing.T) {
	env := newTestServer(t)

	created := createFilm(t, env, validFilmRequest())
	if created.ID <= 0 {
		t.Fatalf("id = %d, want positive", created.ID)
	}
	if created.Name != "The General" || created.Duration != 75 {
		t.Fatalf("unexpected film: %+v", created)
	}
	if created.ReleaseDate != "1926-12-31" {
		t.Fatalf("releaseDate = %q", created.ReleaseDate)
	}
	if created.MPA.ID != 1 || created.MPA.Name != "G" {
		t.Fatalf("mpa not resolved: %+v", created.MPA)
	}
	if len(created.Genres) != 1 || created.Genres[0].Name == "" {
		t.Fatalf("genres not resolved: %+v", created.Genres)
	}

	rr := env.do(t, http.MethodGet, fmt.Sprintf("/films/%d", created.ID), nil)
	requireStatus(t, rr, http.StatusOK)
	got := decodeBody[filmResponse](t, rr)
	if got.ID != created.ID || got.Name != created.Name {
		t.Fatalf("GET roundtrip mismatch: %+v", got)
	}
}

func TestCreateFilm_Validation(t *testing.T) {
	env := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"blank name", func(m map[string]any) { m["name"] = "  " }},
		{"bad date format", func(m map[string]any) { m["releaseDate"] = "31/12/1926" }},
		{"date before cinema", func(m map[string]any) { m["releaseDate"] = "1890-01-01" }},
		{"zero duration", func(m map[string]any) { m["duration"] = 0 }},
		{"missing mpa", func(m map[string]any) { delete(m, "mpa") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validFilmRequest()
			tt.mutate(body)
			rr := env.do(t, http.MethodPost, "/films", body)
			requireStatus(t, rr, http.StatusBadRequest)
		})
	}

	rr := env.do(t, http.MethodPost, "/films", nil)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestCreateFilm_UnknownReferences(t *testing.T) {
	env := newTestServer(t)

	body := validFilmRequest()
	body["mpa"] = map[string]any{"id": 99}
	rr := env.do(t, http.MethodPost, "/films", body)
	requireStatus(t, rr, http.StatusBadRequest)
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != "INVALID_REFERENCE" {
		t.Fatalf("code = %q, want INVALID_REFERENCE", resp.Code)
	}

	body = validFilmRequest()
	body["genres"] = []map[string]any{{"id": 999}}
	rr = env.do(t, http.MethodPost, "/films", body)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestUpdateFilm(t *testing.T) {
	env := newTestServer(t)

	created := createFilm(t, env, validFilmRequest())

	body := validFilmRequest()
	body["id"] = created.ID
	body["name"] = "The General (restored)"
	body["genres"] = []map[string]any{{"id": 2}, {"id": 4}}
	rr := env.do(t, http.MethodPut, "/films", body)
	requireStatus(t, rr, http.StatusOK)
	updated := decodeBody[filmResponse](t, rr)
	if updated.Name != "The General (restored)" {
		t.Fatalf("name = %q", updated.Name)
	}
	if len(updated.Genres) != 2 {
		t.Fatalf("genres = %+v, want the replacement pair", updated.Genres)
	}

	body["id"] = 9999
	rr = env.do(t, http.MethodPut, "/films", body)
	requireStatus(t, rr, http.StatusNotFound)

	body["id"] = 0
	rr = env.do(t, http.MethodPut, "/films", body)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestGetFilm_Errors(t *testing.T) {
	env := newTestServer(t)

	rr := env.do(t, http.MethodGet, "/films/9999", nil)
	requireStatus(t, rr, http.StatusNotFound)

	rr = env.do(t, http.MethodGet, "/films/abc", nil)
	requireStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, http.MethodGet, "/films/-1", nil)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestLikes(t *testing.T) {
	env := newTestServer(t)

	film := createFilm(t, env, validFilmRequest())
	user := createUser(t, env, "viewer")

	path := fmt.Sprintf("/films/%d/like/%d", film.ID, user.ID)

	rr := env.do(t, http.MethodPut, path, nil)
	requireStatus(t, rr, http.StatusNoContent)

	rr = env.do(t, http.MethodPut, path, nil)
	requireStatus(t, rr, http.StatusConflict)
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != "DUPLICATE_LIKE" {
		t.Fatalf("code = %q, want DUPLICATE_LIKE", resp.Code)
	}

	rr = env.do(t, http.MethodDelete, path, nil)
	requireStatus(t, rr, http.StatusNoContent)

	// Deleting again is a no-op, not an error.
	rr = env.do(t, http.MethodDelete, path, nil)
	requireStatus(t, rr, http.StatusNoContent)

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/films/9999/like/%d", user.ID), nil)
	requireStatus(t, rr, http.StatusNotFound)
	rr = env.do(t, http.MethodPut, fmt.Sprintf("/films/%d/like/9999", film.ID), nil)
	requireStatus(t, rr, http.StatusNotFound)
}

func TestPopularFilms(t *testing.T) {
	env := newTestServer(t)

	quiet := createFilm(t, env, validFilmRequest())

	hitBody := validFilmRequest()
	hitBody["name"] = "Crowd Favourite"
	hit := createFilm(t, env, hitBody)

	for _, login := range []string{"a", "b"} {
		user := createUser(t, env, login)
		rr := env.do(t, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", hit.ID, user.ID), nil)
		requireStatus(t, rr, http.StatusNoContent)
	}

	rr := env.do(t, http.MethodGet, "/films/popular?count=1", nil)
	requireStatus(t, rr, http.StatusOK)
	top := decodeBody[[]filmResponse](t, rr)
	if len(top) != 1 || top[0].ID != hit.ID {
		t.Fatalf("popular(1) = %+v, want just the liked film", top)
	}

	// Default count is 10: both films come back, most liked first.
	rr = env.do(t, http.MethodGet, "/films/popular", nil)
	requireStatus(t, rr, http.StatusOK)
	all := decodeBody[[]filmResponse](t, rr)
	if len(all) != 2 || all[0].ID != hit.ID || all[1].ID != quiet.ID {
		t.Fatalf("popular() = %+v", all)
	}

	rr = env.do(t, http.MethodGet, "/films/popular?count=abc", nil)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestListFilms(t *testing.T) {
	env := newTestServer(t)

	rr := env.do(t, http.MethodGet, "/films", nil)
	requireStatus(t, rr, http.StatusOK)
	films := decodeBody[[]filmResponse](t, rr)
	if len(films) != 0 {
		t.Fatalf("fresh store lists %d films, want 0", len(films))
	}

	createFilm(t, env, validFilmRequest())
	rr = env.do(t, http.MethodGet, "/films", nil)
	requireStatus(t, rr, http.StatusOK)
	films = decodeBody[[]filmResponse](t, rr)
	if len(films) != 1 {
		t.Fatalf("len(films) = %d, want 1", len(films))
	}
}

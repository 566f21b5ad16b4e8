package httpserver

import (
	"net/http"
	"testing"
)

func TestMPAEndpoints(t *testing.T) {
	env := newTestServer(t)

	rr := env.do(t, http.MethodGet, "/mpa", nil)
	requireStatus(t, rr, http.StatusOK)
	ratings := decodeBody[[]mpaPayload](t, rr)
	if len(ratings) != 5 {
		t.Fatalf("len(ratings) = %d, want 5", len(ratings))
	}
	if ratings[0].ID != 1 || ratings[0].Name != "G" {
		t.Fatalf("first rating = %+v, want G", ratings[0])
	}

	rr = env.do(t, http.MethodGet, "/mpa/5", nil)
	requireStatus(t, rr, http.StatusOK)
	nc17 := decodeBody[mpaPayload](t, rr)
	if nc17.Name != "NC-17" {
		t.Fatalf("mpa/5 = %+v", nc17)
	}

	rr = env.do(t, http.MethodGet, "/mpa/42", nil)
	requireStatus(t, rr, http.StatusNotFound)

	rr = env.do(t, http.MethodGet, "/mpa/zero", nil)
	requireStatus(t, rr, http.StatusBadRequest)
}

func TestGenreEndpoints(t *testing.T) {
	env := newTestServer(t)

	rr := env.do(t, http.MethodGet, "/genres", nil)
	requireStatus(t, rr, http.StatusOK)
	genres := decodeBody[[]genrePayload](t, rr)
	if len(genres) != 6 {
		t.Fatalf("len(genres) = %d, want 6", len(genres))
	}

	rr = env.do(t, http.MethodGet, "/genres/2", nil)
	requireStatus(t, rr, http.StatusOK)
	drama := decodeBody[genrePayload](t, rr)
	if drama.Name != "Drama" {
		t.Fatalf("genres/2 = %+v", drama)
	}

	rr = env.do(t, http.MethodGet, "/genres/42", nil)
	requireStatus(t, rr, http.StatusNotFound)
}

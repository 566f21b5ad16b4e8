package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/filmring/filmring/internal/domain"
)

type userRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday,omitempty"`
}

func (r userRequest) toDomain() (domain.User, error) {
	user := domain.User{
		ID:    r.ID,
		Email: strings.TrimSpace(r.Email),
		Login: strings.TrimSpace(r.Login),
		Name:  r.Name,
	}
	if r.Birthday != "" {
		birthday, err := time.Parse(dateFormat, r.Birthday)
		if err != nil {
			return domain.User{}, err
		}
		user.Birthday = &birthday
	}
	return user, nil
}

func toUserResponse(user domain.User) userResponse {
	resp := userResponse{
		ID:    user.ID,
		Email: user.Email,
		Login: user.Login,
		Name:  user.Name,
	}
	if user.Birthday != nil {
		resp.Birthday = user.Birthday.Format(dateFormat)
	}
	return resp
}

func (s *Server) decodeUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	var req userRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return domain.User{}, false
	}

	user, err := req.toDomain()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "birthday must follow YYYY-MM-DD format")
		return domain.User{}, false
	}
	if err := domain.ValidateUser(user, time.Now()); err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return domain.User{}, false
	}
	// Display-name default is computed here, once per write.
	domain.NormalizeUser(&user)
	return user, true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.decodeUser(w, r)
	if !ok {
		return
	}

	created, err := s.repo.Users.Create(r.Context(), user)
	if err != nil {
		s.respondStoreError(w, err, "create user")
		return
	}
	s.respondJSON(w, http.StatusCreated, toUserResponse(created))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.decodeUser(w, r)
	if !ok {
		return
	}
	if user.ID <= 0 {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required for update")
		return
	}

	updated, err := s.repo.Users.Update(r.Context(), user)
	if err != nil {
		s.respondStoreError(w, err, "update user")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.Users.ListAll(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "list users")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(users))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	user, err := s.repo.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "get user")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := s.friendParams(w, r, "friendId")
	if !ok {
		return
	}

	if err := s.repo.Users.AddFriend(r.Context(), userID, friendID); err != nil {
		s.respondStoreError(w, err, "add friend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := s.friendParams(w, r, "friendId")
	if !ok {
		return
	}

	if err := s.repo.Users.RemoveFriend(r.Context(), userID, friendID); err != nil {
		s.respondStoreError(w, err, "remove friend")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	friends, err := s.repo.Users.ListFriends(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "list friends")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(friends))
}

func (s *Server) handleCommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := s.friendParams(w, r, "otherId")
	if !ok {
		return
	}

	common, err := s.repo.Users.CommonFriends(r.Context(), userID, otherID)
	if err != nil {
		s.respondStoreError(w, err, "common friends")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponses(common))
}

func (s *Server) friendParams(w http.ResponseWriter, r *http.Request, other string) (userID, otherID int64, ok bool) {
	userID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	otherID, err = idParam(r, other)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return 0, 0, false
	}
	return userID, otherID, true
}

func toUserResponses(users []domain.User) []userResponse {
	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	return items
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/services"
)

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type userResponse struct {
	Message string             `json:"message"`
	User    *models.PublicUser `json:"user"`
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Signup(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user signed up", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Signup successful!"})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Successfully logged in",
		Token:   res.Token,
		User:    res.User,
	})
}

func (s *HTTPServer) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeProfile(w, r, id)
}

func (s *HTTPServer) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	s.writeProfile(w, r, scopeOf(r).UserID)
}

func (s *HTTPServer) writeProfile(w http.ResponseWriter, r *http.Request, id int64) {
	u, err := s.users.Get(r.Context(), scopeOf(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.applyProfileUpdate(w, r, id)
}

func (s *HTTPServer) updateOwnProfile(w http.ResponseWriter, r *http.Request) {
	s.applyProfileUpdate(w, r, scopeOf(r).UserID)
}

func (s *HTTPServer) applyProfileUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var in services.UpdateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Update(r.Context(), scopeOf(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Message: "User updated successfully", User: u})
}

func (s *HTTPServer) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.removeProfile(w, r, id)
}

func (s *HTTPServer) deleteOwnProfile(w http.ResponseWriter, r *http.Request) {
	s.removeProfile(w, r, scopeOf(r).UserID)
}

func (s *HTTPServer) removeProfile(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.users.Delete(r.Context(), scopeOf(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user deleted", "user_id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

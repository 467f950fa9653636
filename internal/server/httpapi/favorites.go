package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

const msgMissingUser = "Unauthorized: Missing user data"

type favoriteRequest struct {
	DiaryID int64 `json:"diaryId"`
}

type favoriteResponse struct {
	Message  string              `json:"message"`
	Favorite *models.FavoriteDay `json:"favorite"`
}

type toggleResponse struct {
	Message   string              `json:"message"`
	Favorited bool                `json:"favorited"`
	Favorite  *models.FavoriteDay `json:"favorite,omitempty"`
}

func (s *HTTPServer) addFavorite(w http.ResponseWriter, r *http.Request) {
	if _, ok := ClaimsFrom(r.Context()); !ok {
		s.writeError(w, r, apperror.Auth(msgMissingUser))
		return
	}

	var in favoriteRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	fav, err := s.favorites.Add(r.Context(), scopeOf(r), in.DiaryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, favoriteResponse{Message: "Favorite added successfully", Favorite: fav})
}

func (s *HTTPServer) listFavorites(w http.ResponseWriter, r *http.Request) {
	if _, ok := ClaimsFrom(r.Context()); !ok {
		s.writeError(w, r, apperror.Auth(msgMissingUser))
		return
	}

	favs, err := s.favorites.List(r.Context(), scopeOf(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *HTTPServer) getFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fav, err := s.favorites.Get(r.Context(), scopeOf(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (s *HTTPServer) updateFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in favoriteRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	fav, err := s.favorites.Update(r.Context(), scopeOf(r), id, in.DiaryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{Message: "Favorite updated successfully", Favorite: fav})
}

func (s *HTTPServer) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.favorites.Remove(r.Context(), scopeOf(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Favorite removed successfully"})
}

func (s *HTTPServer) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	diaryID, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.favorites.Toggle(r.Context(), scopeOf(r), diaryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := toggleResponse{Message: "Favorite removed successfully", Favorited: res.Favorited, Favorite: res.Favorite}
	if res.Favorited {
		out.Message = "Favorite added successfully"
	}
	writeJSON(w, http.StatusOK, out)
}

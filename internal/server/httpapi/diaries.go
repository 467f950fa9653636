package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/services"
)

type entryResponse struct {
	Message string             `json:"message"`
	Entry   *models.DiaryEntry `json:"entry"`
}

func (s *HTTPServer) createDiary(w http.ResponseWriter, r *http.Request) {
	var in services.CreateDiaryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.diaries.Create(r.Context(), scopeOf(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryResponse{Message: "Diary entry created successfully", Entry: e})
}

func (s *HTTPServer) listDiaries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.diaries.List(r.Context(), scopeOf(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *HTTPServer) getDiary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.diaries.Get(r.Context(), scopeOf(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) updateDiary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in services.UpdateDiaryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.diaries.Update(r.Context(), scopeOf(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Message: "Diary entry updated successfully", Entry: e})
}

func (s *HTTPServer) deleteDiary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.diaries.Delete(r.Context(), scopeOf(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Diary entry deleted successfully"})
}

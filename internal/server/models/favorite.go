package models

import "time"

// FavoriteDay is a user's bookmark of one diary entry. (UserID, DiaryID)
// is unique.
type FavoriteDay struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	DiaryID   int64     `json:"diaryId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteWithDiary is a favorite joined with the entry it points at.
type FavoriteWithDiary struct {
	FavoriteDay
	DiaryEntry DiaryEntry `json:"diaryEntry"`
}

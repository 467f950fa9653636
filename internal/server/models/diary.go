package models

import "time"

type DiaryEntry struct {
	EntryID      int64     `json:"entryId"`
	UserID       int64     `json:"userId"`
	SelectedDate time.Time `json:"selectedDate"`
	DayQuality   string    `json:"dayQuality"`
	Thoughts     string    `json:"thoughts"`
	Highlight    *string   `json:"highlight"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DiaryPatch lists the columns to change; nil fields are left untouched.
type DiaryPatch struct {
	SelectedDate *time.Time
	DayQuality   *string
	Thoughts     *string
	Highlight    *string
}

func (p DiaryPatch) Empty() bool {
	return p.SelectedDate == nil && p.DayQuality == nil && p.Thoughts == nil && p.Highlight == nil
}

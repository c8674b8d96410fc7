package models

import "time"

// WorksheetRecord is the saved bundle of a day's jobs, slots and engineer comments.
type WorksheetRecord struct {
	DateLabel string         `json:"dateLabel"`
	Date      time.Time      `json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	TimeSlots []TimeSlot     `json:"timeSlots"`
	Jobs      []JobRecord    `json:"jobs"`
	Comments  map[int]string `json:"comments"`
}

// MessageSet holds the finalized customer notifications for a worksheet.
// Messages are index-aligned with the worksheet's jobs at creation time.
type MessageSet struct {
	DateLabel string    `json:"dateLabel"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []string  `json:"messages"`
}

// WorksheetSummary is a listing entry for a stored worksheet.
type WorksheetSummary struct {
	ID        string    `json:"id"`
	DateLabel string    `json:"dateLabel"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	JobCount  int       `json:"jobCount"`
}

// MessageSetSummary is a listing entry for a stored message set.
type MessageSetSummary struct {
	ID           string    `json:"id"`
	DateLabel    string    `json:"dateLabel"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
}

package model

import "time"

type UploadedFile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	File       string    `json:"file"` // storage key
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
	FileURL    string    `json:"file_url"`
}

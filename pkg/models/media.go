package models

import "encoding/json"

// UploadedFile is a stored upload and the URL it is served from
type UploadedFile struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Envelope is the body shape of every admin API response.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Files   []UploadedFile  `json:"files,omitempty"`
}

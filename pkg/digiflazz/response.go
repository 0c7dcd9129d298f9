package digiflazz

import "encoding/json"

// Envelope is the {success, data, message} wrapper the backend uses for all
// list responses. Data is kept raw so the caller can decode it per kind.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// SyncResponse is the backend's answer to a prepaid sync request.
type SyncResponse struct {
	Success        bool   `json:"success"`
	TotalProcessed int    `json:"total_processed"`
	SyncedCount    int    `json:"synced_count"`
	UpdatedCount   int    `json:"updated_count"`
	Message        string `json:"message,omitempty"`
}

package certificate

import "time"

// Certificate is one issued medical certificate, keyed by its serial number
// and linked to exactly one visit record. FileName references the stored
// document in the blob store.
type Certificate struct {
	SerialNo    string    `json:"serial_no"`
	VisitID     int64     `json:"visit_id"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Relaxations *string   `json:"relaxations,omitempty"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachInput carries the certificate metadata submitted alongside the
// uploaded document.
type AttachInput struct {
	SerialNo    string  `json:"serial_no"`
	VisitID     int64   `json:"visit_id"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Relaxations *string `json:"relaxations,omitempty"`
}

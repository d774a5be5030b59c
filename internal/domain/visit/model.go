package visit

import "time"

// VisitRecord maps to the visits table. Rows are written once by the
// submission workflow and never mutated.
type VisitRecord struct {
	ID        int64     `db:"id" json:"id"`
	RollNo    string    `db:"roll_no" json:"roll_no"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DispensedLine maps to the dispensed_lines table: one row per medicine
// prescribed in a visit.
type DispensedLine struct {
	ID       int64  `db:"id" json:"id"`
	VisitID  int64  `db:"visit_id" json:"visit_id"`
	Medicine string `db:"medicine" json:"medicine"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// LineItem is one requested medicine in a submission.
type LineItem struct {
	Medicine string `json:"medicine"`
	Quantity int    `json:"quantity"`
}

// Submission is the input of the record submission workflow. Lines may be
// empty; duplicates are dispensed sequentially, not merged.
type Submission struct {
	RollNo    string     `json:"roll_no"`
	Diagnosis string     `json:"diagnosis"`
	Remarks   *string    `json:"remarks,omitempty"`
	Lines     []LineItem `json:"lines"`
}

// HistoryEntry is the read projection for visit history and day-log queries:
// a visit joined with its concatenated medication summary and certificate
// availability.
type HistoryEntry struct {
	VisitID           int64     `json:"visit_id"`
	RollNo            string    `json:"roll_no"`
	Diagnosis         string    `json:"diagnosis"`
	Remarks           *string   `json:"remarks,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Medications       string    `json:"medications"`
	HasCertificate    bool      `json:"has_certificate"`
	CertificateSerial *string   `json:"certificate_serial,omitempty"`
}

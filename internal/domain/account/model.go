package account

import "time"

// User maps to the users table. Roll number is the unique identity for both
// students and medical staff.
type User struct {
	RollNo       string    `db:"roll_no" json:"roll_no"`
	Role         string    `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Hostel       *string   `db:"hostel" json:"hostel,omitempty"`
	Room         *string   `db:"room" json:"room,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HostelDetails is the student-mutable slice of a User.
type HostelDetails struct {
	Hostel string `json:"hostel"`
	Room   string `json:"room"`
}

package model

import "time"

// Mechanic represents a row in the `mechanics` table.  Mechanics log in
// with email and password and are assigned to service tickets through
// the mechanic_assignments junction table.  Only the bcrypt hash of the
// password is stored.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – mechanic's first name.
//  LastName     – mechanic's last name.
//  Specialty    – area of expertise (e.g. "Engine Repair").
//  Email        – unique email address used for login.
//  Phone        – unique phone number.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Mechanic struct {
	ID           uint64    // mechanics.id
	FirstName    string    // mechanics.first_name
	LastName     string    // mechanics.last_name
	Specialty    string    // mechanics.specialty
	Email        string    // mechanics.email
	Phone        string    // mechanics.phone
	PasswordHash string    // mechanics.password_hash
	CreatedAt    time.Time // mechanics.created_at
	UpdatedAt    time.Time // mechanics.updated_at
}

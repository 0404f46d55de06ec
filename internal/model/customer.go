package model

import "time"

// Customer represents a row in the `customers` table.  Customers own
// service tickets; a ticket's customer reference is immutable once the
// ticket has been created.
//
// Fields:
//  ID        – primary key identifier.
//  FirstName – customer's first name.
//  LastName  – customer's last name.
//  Email     – unique email address.
//  Phone     – unique phone number.
//  Address   – postal address.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Customer struct {
	ID        uint64    // customers.id
	FirstName string    // customers.first_name
	LastName  string    // customers.last_name
	Email     string    // customers.email
	Phone     string    // customers.phone
	Address   string    // customers.address
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}

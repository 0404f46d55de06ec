// Package repository implements MySQL persistence for the shop's
// entities.  This file defines error values shared across multiple
// repositories.  These sentinel values allow handlers to distinguish
// failure scenarios: ErrConflict signals that an operation cannot
// proceed because of dependent records (e.g. deleting a part that is
// still on a ticket), while the duplicate errors surface MySQL unique
// key violations on contact columns.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a delete cannot be performed because of
// conflicting state, such as removing a customer who still has service
// tickets.  Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an insert or update collides with the
// unique email column of customers or mechanics.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when an insert or update collides with the
// unique phone column of customers or mechanics.
var ErrPhoneExists = errors.New("phone number already exists")

// duplicateKeyError maps a MySQL 1062 duplicate entry error to the
// matching sentinel based on which unique column the message names.
// Any other error is returned unchanged.
func duplicateKeyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return err
	}
	if strings.Contains(msg, "email") {
		return ErrEmailExists
	}
	if strings.Contains(msg, "phone") {
		return ErrPhoneExists
	}
	return err
}

// foreignKeyConflict reports whether err is a MySQL 1451 row-is-referenced
// error, raised when deleting a parent row that child rows still point at.
func foreignKeyConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1451") || strings.Contains(msg, "foreign key constraint")
}

package services

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is not owned
	// by the requesting user; the two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when signup hits the unique email
	// constraint.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures leak nothing about which it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

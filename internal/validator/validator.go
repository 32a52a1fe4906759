package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingDestination = errors.New("withdrawal destination is incomplete")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_ ]{3,40}$`)
	upiRegex      = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateRole(role string) error {
	if role != "finder" && role != "poster" {
		return ErrInvalidRole
	}
	return nil
}

// ValidateDestination checks the withdrawal target: either a UPI id or a bank
// name plus account number must be supplied, never neither.
func ValidateDestination(upiID, bankName, bankAccountNo string) error {
	if upiID != "" {
		if !upiRegex.MatchString(upiID) {
			return ErrMissingDestination
		}
		return nil
	}
	if bankName != "" && bankAccountNo != "" {
		return nil
	}
	return ErrMissingDestination
}

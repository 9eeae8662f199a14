// Package validate holds the regex field checks applied to signup and
// profile-update payloads before they reach storage.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MinUsernameLength = 4
	MinPasswordLength = 8
)

var (
	passwordUp = regexp.MustCompile(`[A-Z]`)
	passwordLo = regexp.MustCompile(`[a-z]`)
	passwordDi = regexp.MustCompile(`[0-9]`)
	passwordSp = regexp.MustCompile(`[^a-zA-Z0-9]`)
	emailRe    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	// Street, Apt, City. Street and City are letters and spaces, Apt a number.
	addressRe = regexp.MustCompile(`^[a-zA-Z ]+, *\d+, *[a-zA-Z ]+$`)
	phoneRe   = regexp.MustCompile(`^0(5\d|[2-4]|[8-9]|7\d)\d{7}$`)
)

// Username requires a minimum length.
func Username(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLength)
	}
	return nil
}

// Password requires a minimum length plus one uppercase, one lowercase, one
// digit and one special character.
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if !passwordUp.MatchString(password) || !passwordLo.MatchString(password) ||
		!passwordDi.MatchString(password) || !passwordSp.MatchString(password) {
		return errors.New("password must contain at least one uppercase, one lowercase, one number and one special character")
	}
	return nil
}

// Email matches a lowercase-normalized address against a simple RFC-ish form.
func Email(email string) error {
	if !emailRe.MatchString(strings.ToLower(email)) {
		return errors.New("invalid email format, should be a valid email address")
	}
	return nil
}

// Address expects "Street, Apt, City".
func Address(address string) error {
	if !addressRe.MatchString(address) {
		return errors.New("invalid address format, should be Street, Apt, City")
	}
	return nil
}

// PhoneNumber expects a legal Israeli phone number.
func PhoneNumber(phone string) error {
	if !phoneRe.MatchString(phone) {
		return errors.New("invalid phone number format")
	}
	return nil
}

var birthdayLayouts = []string{"2.1.2006", "2/1/2006", "2-1-2006"}

// Birthday accepts d.m.yyyy, d/m/yyyy or d-m-yyyy, with an age between 16 and
// 150 years.
func Birthday(birthday string) error {
	var parsed time.Time
	var ok bool
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, birthday); err == nil {
			parsed, ok = t, true
			break
		}
	}
	if !ok {
		return errors.New("invalid birthday format, should be d.m.yyyy, d/m/yyyy or d-m-yyyy")
	}

	now := time.Now()
	if parsed.After(now.AddDate(-16, 0, 0)) {
		return errors.New("invalid birthday, must be older than 16 years")
	}
	if parsed.Before(now.AddDate(-150, 0, 0)) {
		return errors.New("invalid birthday, must be younger than 150 years")
	}
	return nil
}

// Signup runs every signup field check and returns the first failure.
func Signup(username, password, email, address, phone, birthday string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := Address(address); err != nil {
		return err
	}
	if err := PhoneNumber(phone); err != nil {
		return err
	}
	if err := Birthday(birthday); err != nil {
		return err
	}
	// password last, it is the most expensive check
	return Password(password)
}

package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minCohort = 5
	maxCohort = 14
)

var (
	emailPattern         = regexp.MustCompile(`.+@.+\..+`)
	studentNumberPattern = regexp.MustCompile(`^\d{2}$`)
)

func normalizeLogin(req LoginRequest) (LoginRequest, error) {
	out := LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: strings.TrimSpace(req.Password),
	}
	if out.Email == "" || out.Password == "" {
		return LoginRequest{}, errors.New("email and password are required")
	}
	return out, nil
}

func normalizeRegistration(req RegisterRequest) (RegisterPayload, error) {
	out := RegisterPayload{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Password:      strings.TrimSpace(req.Password),
		BirthDate:     strings.TrimSpace(req.BirthDate),
		Phone:         strings.TrimSpace(req.Phone),
		Cohort:        req.Cohort,
		StudentNumber: strings.TrimSpace(req.StudentNumber),
	}
	switch {
	case utf8.RuneCountInString(out.Name) < 2:
		return RegisterPayload{}, errors.New("name must be at least 2 characters")
	case !emailPattern.MatchString(out.Email):
		return RegisterPayload{}, errors.New("invalid email address")
	case utf8.RuneCountInString(out.Password) < 8:
		return RegisterPayload{}, errors.New("password must be at least 8 characters")
	case out.Password != strings.TrimSpace(req.PasswordConfirm):
		return RegisterPayload{}, errors.New("passwords do not match")
	case !validDate(out.BirthDate):
		return RegisterPayload{}, errors.New("birth date must be YYYY-MM-DD")
	case utf8.RuneCountInString(out.Phone) < 7:
		return RegisterPayload{}, errors.New("phone number is too short")
	case out.Cohort < minCohort || out.Cohort > maxCohort:
		return RegisterPayload{}, errors.New("cohort is out of range")
	case !studentNumberPattern.MatchString(out.StudentNumber):
		return RegisterPayload{}, errors.New("student number must be two digits")
	}
	return out, nil
}

func validDate(value string) bool {
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}

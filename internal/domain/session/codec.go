package session

import (
	"encoding/json"
	"errors"
)

type storedUser struct {
	ID    *int64  `json:"id"`
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

type storedSession struct {
	Token *string     `json:"token"`
	User  *storedUser `json:"user"`
}

var (
	errMissingToken = errors.New("session token missing")
	errMissingUser  = errors.New("session user incomplete")
)

func encode(s Session) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// decode accepts only records whose fields are all present with the expected JSON types.
func decode(raw string) (Session, error) {
	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Session{}, err
	}
	if stored.Token == nil || *stored.Token == "" {
		return Session{}, errMissingToken
	}
	u := stored.User
	if u == nil || u.ID == nil || u.Email == nil || u.Name == nil {
		return Session{}, errMissingUser
	}
	return Session{
		Token: *stored.Token,
		User:  User{ID: *u.ID, Email: *u.Email, Name: *u.Name},
	}, nil
}

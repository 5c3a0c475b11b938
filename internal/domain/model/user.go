package model

import (
	"fmt"
	"strings"
)

// User is an API account able to obtain access tokens.
type User struct {
	Username     string
	PasswordHash string
	Role         string
}

// NewUser validates and creates a User.
func NewUser(username, passwordHash, role string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password hash is required for user %s", username)
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != "admin" && role != "user" {
		return User{}, fmt.Errorf("user %s: invalid role %q", username, role)
	}
	return User{Username: username, PasswordHash: passwordHash, Role: role}, nil
}

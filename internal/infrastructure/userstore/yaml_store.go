// Package userstore loads API accounts from a YAML file.
package userstore

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/port"
)

// File is the on-disk layout of the user store.
//
//	users:
//	  - username: analyst
//	    password_hash: $2a$10$...
//	    role: user
type File struct {
	Users []UserRecord `yaml:"users"`
}

// UserRecord is one account in the YAML file.
type UserRecord struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// YAMLStore implements port.UserStore with accounts read once at startup.
type YAMLStore struct {
	users map[string]model.User
}

// Load reads and validates the user file at path.
func Load(path string) (*YAMLStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user store %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a store from YAML content.
func Parse(data []byte) (*YAMLStore, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode user store: %w", err)
	}

	users := make(map[string]model.User, len(f.Users))
	for i, rec := range f.Users {
		u, err := model.NewUser(rec.Username, rec.PasswordHash, rec.Role)
		if err != nil {
			return nil, fmt.Errorf("user store entry %d: %w", i, err)
		}
		if _, dup := users[u.Username]; dup {
			return nil, fmt.Errorf("user store entry %d: duplicate username %s", i, u.Username)
		}
		users[u.Username] = u
	}
	return &YAMLStore{users: users}, nil
}

// FindByUsername returns the account or port.ErrUserNotFound.
func (s *YAMLStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := s.users[username]
	if !ok {
		return model.User{}, port.ErrUserNotFound
	}
	return u, nil
}

// Usernames lists the known accounts, sorted.
func (s *YAMLStore) Usernames() []string {
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode renders users in the store layout. It is used by the CLI to emit
// new entries.
func Encode(users ...UserRecord) ([]byte, error) {
	data, err := yaml.Marshal(File{Users: users})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user store: %w", err)
	}
	return data, nil
}

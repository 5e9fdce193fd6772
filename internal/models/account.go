package models

import (
	"strings"
	"time"
)

type UserAccount struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountKey is the lookup key for an account: role plus lowercased email.
func AccountKey(role, email string) string {
	return role + ":" + strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is the account view safe to return to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (a *UserAccount) Public() PublicUser {
	return PublicUser{ID: a.ID, Role: a.Role, Email: a.Email, Name: a.Name}
}

// SessionState is the per-user UI session persisted across reloads.
type SessionState struct {
	ActiveCandidateID string    `json:"activeCandidateId,omitempty"`
	CurrentTestID     string    `json:"currentTestId,omitempty"`
	ShowWelcomeBack   bool      `json:"showWelcomeBack"`
	UserID            string    `json:"userId,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller carried in a request context.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Package store persists opaque versioned documents under partition keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// KeyPrefix namespaces every document written by this service.
	KeyPrefix = "ai-interview-"
	guestKey  = KeyPrefix + "guest"

	maxUpdateAttempts = 8
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrConflict means the stored version changed between load and save.
	ErrConflict = errors.New("version conflict")
)

// Backend stores raw documents with a monotonically increasing version.
// A version of 0 means "does not exist yet".
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, int64, error)
	Save(ctx context.Context, key string, data []byte, expectedVersion int64) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Purge(ctx context.Context) error
}

// Scope is the partition a caller's documents live in.
type Scope struct {
	UserID string
}

// GuestScope is shared by every unauthenticated session.
func GuestScope() Scope { return Scope{} }

func UserScope(userID string) Scope { return Scope{UserID: userID} }

func (s Scope) IsGuest() bool { return s.UserID == "" }

// Partition is "ai-interview-<userId>" or "ai-interview-guest".
func (s Scope) Partition() string {
	if s.IsGuest() {
		return guestKey
	}
	return KeyPrefix + s.UserID
}

// Key addresses a named document inside the partition.
func (s Scope) Key(document string) string {
	return s.Partition() + "/" + document
}

// GlobalKey addresses a document shared across partitions.
func GlobalKey(document string) string {
	return KeyPrefix + "global/" + document
}

// PartitionOf returns the user id encoded in a document key and whether it was a user partition.
func PartitionOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return "", false
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "guest" || id == "global" || id == "" {
		return "", false
	}
	return id, true
}

// View decodes the document at key into a fresh T. A missing document yields the zero T.
func View[T any](ctx context.Context, b Backend, key string) (*T, error) {
	doc := new(T)
	data, _, err := b.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

// Update loads the document at key, applies fn and saves it with an optimistic
// version check, retrying fn on conflict. fn must only mutate the document.
func Update[T any](ctx context.Context, b Backend, key string, fn func(doc *T) error) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		data, version, err := b.Load(ctx, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		doc := new(T)
		if len(data) > 0 {
			if err := json.Unmarshal(data, doc); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}

		if err := fn(doc); err != nil {
			return err
		}

		out, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		err = b.Save(ctx, key, out, version)
		if errors.Is(err, ErrConflict) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: %w", key, ErrConflict)
}

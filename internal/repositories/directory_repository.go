package repositories

import (
	"context"

	"peerprep/interview/internal/store"
)

var directoryKey = store.GlobalKey("directory")

// directory maps globally unique test codes to the interviewer that owns them.
type directory struct {
	Owners map[string]string `json:"owners"`
}

// DirectoryRepository resolves which workspace a test code belongs to.
type DirectoryRepository struct {
	backend store.Backend
}

func NewDirectoryRepository(backend store.Backend) *DirectoryRepository {
	return &DirectoryRepository{backend: backend}
}

// Claim reserves testID for ownerID. Codes are never shared between owners.
func (r *DirectoryRepository) Claim(ctx context.Context, testID, ownerID string) error {
	return store.Update(ctx, r.backend, directoryKey, func(d *directory) error {
		if d.Owners == nil {
			d.Owners = make(map[string]string)
		}
		if _, taken := d.Owners[testID]; taken {
			return ErrTestExists
		}
		d.Owners[testID] = ownerID
		return nil
	})
}

// Release frees testID if ownerID holds it.
func (r *DirectoryRepository) Release(ctx context.Context, testID, ownerID string) error {
	return store.Update(ctx, r.backend, directoryKey, func(d *directory) error {
		if d.Owners[testID] == ownerID {
			delete(d.Owners, testID)
		}
		return nil
	})
}

func (r *DirectoryRepository) Lookup(ctx context.Context, testID string) (string, error) {
	d, err := store.View[directory](ctx, r.backend, directoryKey)
	if err != nil {
		return "", err
	}
	owner, ok := d.Owners[testID]
	if !ok {
		return "", ErrTestNotFound
	}
	return owner, nil
}

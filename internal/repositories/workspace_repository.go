package repositories

import (
	"context"
	"strings"

	"peerprep/interview/internal/store"
)

const workspaceDocument = "workspace"

// WorkspaceRepository loads and saves interviewer workspaces.
type WorkspaceRepository struct {
	backend store.Backend
}

func NewWorkspaceRepository(backend store.Backend) *WorkspaceRepository {
	return &WorkspaceRepository{backend: backend}
}

func workspaceKey(ownerID string) string {
	return store.UserScope(ownerID).Key(workspaceDocument)
}

// View returns a snapshot of the owner's workspace. A missing one is empty.
func (r *WorkspaceRepository) View(ctx context.Context, ownerID string) (*Workspace, error) {
	ws, err := store.View[Workspace](ctx, r.backend, workspaceKey(ownerID))
	if err != nil {
		return nil, err
	}
	ws.OwnerID = ownerID
	ws.ensure()
	return ws, nil
}

// Update applies fn to the owner's workspace and persists the result before returning.
func (r *WorkspaceRepository) Update(ctx context.Context, ownerID string, fn func(ws *Workspace) error) error {
	return store.Update(ctx, r.backend, workspaceKey(ownerID), func(ws *Workspace) error {
		ws.OwnerID = ownerID
		ws.ensure()
		return fn(ws)
	})
}

// Owners lists every interviewer id that has a workspace.
func (r *WorkspaceRepository) Owners(ctx context.Context) ([]string, error) {
	keys, err := r.backend.Keys(ctx, store.KeyPrefix)
	if err != nil {
		return nil, err
	}
	var owners []string
	for _, key := range keys {
		if !strings.HasSuffix(key, "/"+workspaceDocument) {
			continue
		}
		if id, ok := store.PartitionOf(key); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}

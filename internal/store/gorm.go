package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"peerprep/interview/internal/models"
)

// GormBackend stores documents as rows of the interview_snapshots table.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend migrates the snapshot table and returns the backend.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (g *GormBackend) Load(ctx context.Context, key string) ([]byte, int64, error) {
	var snap models.Snapshot
	err := g.db.WithContext(ctx).Where("scope_key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return []byte(snap.Data), snap.Version, nil
}

func (g *GormBackend) Save(ctx context.Context, key string, data []byte, expectedVersion int64) error {
	db := g.db.WithContext(ctx)

	if expectedVersion == 0 {
		err := db.Create(&models.Snapshot{
			ScopeKey: key,
			Data:     string(data),
			Version:  1,
		}).Error
		if err == nil {
			return nil
		}
		var count int64
		if countErr := db.Model(&models.Snapshot{}).Where("scope_key = ?", key).Count(&count).Error; countErr == nil && count > 0 {
			return ErrConflict
		}
		return err
	}

	result := db.Model(&models.Snapshot{}).
		Where("scope_key = ? AND version = ?", key, expectedVersion).
		Updates(map[string]interface{}{
			"data":       string(data),
			"version":    expectedVersion + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (g *GormBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := g.db.WithContext(ctx).Model(&models.Snapshot{}).
		Where("scope_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("scope_key").
		Pluck("scope_key", &keys).Error
	return keys, err
}

func (g *GormBackend) Purge(ctx context.Context) error {
	return g.db.WithContext(ctx).
		Where("scope_key LIKE ?", KeyPrefix+"%").
		Delete(&models.Snapshot{}).Error
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

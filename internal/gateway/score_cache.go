package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"peerprep/interview/internal/models"
)

// ScoreCache remembers grades for (question, answer) pairs so a resubmitted
// answer is not sent to the model twice.
type ScoreCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	grade     models.Grade
	expiresAt time.Time
}

// NewScoreCache creates a cache with the given TTL and starts its janitor.
func NewScoreCache(ttl time.Duration) *ScoreCache {
	sc := &ScoreCache{
		cache: make(map[string]*cacheEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go sc.cleanupLoop()

	return sc
}

func scoreKey(questionID, answer string) string {
	sum := sha256.Sum256([]byte(answer))
	return questionID + ":" + hex.EncodeToString(sum[:])
}

func (sc *ScoreCache) Set(questionID, answer string, grade models.Grade) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache[scoreKey(questionID, answer)] = &cacheEntry{
		grade:     grade,
		expiresAt: time.Now().Add(sc.ttl),
	}
}

// Get returns a grade if one exists and hasn't expired
func (sc *ScoreCache) Get(questionID, answer string) (models.Grade, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	entry, exists := sc.cache[scoreKey(questionID, answer)]
	if !exists || time.Now().After(entry.expiresAt) {
		return models.Grade{}, false
	}
	return entry.grade, true
}

func (sc *ScoreCache) Size() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return len(sc.cache)
}

// Close stops the janitor goroutine.
func (sc *ScoreCache) Close() {
	sc.once.Do(func() { close(sc.stop) })
}

func (sc *ScoreCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sc.cleanup()
		case <-sc.stop:
			return
		}
	}
}

func (sc *ScoreCache) cleanup() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	now := time.Now()
	for key, entry := range sc.cache {
		if now.After(entry.expiresAt) {
			delete(sc.cache, key)
		}
	}
}

package timer

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Key identifies one candidate's interview. At most one question countdown
// runs per key.
type Key struct {
	OwnerID     string
	TestID      string
	CandidateID string
}

// Expiry is handed to the expire callback when a countdown runs out.
type Expiry struct {
	Key        Key
	QuestionID string
	Draft      string
	Deadline   time.Time
}

// ExpireFunc auto-submits the draft of an expired question.
type ExpireFunc func(Expiry)

type entry struct {
	questionID string
	deadline   time.Time
	draft      string
	timer      *time.Timer
	gen        uint64
}

// Scheduler arms per-question countdowns and keeps the candidate's latest draft
// so it can be submitted when time runs out.
type Scheduler struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	gen      uint64
	stopped  bool
	onExpire ExpireFunc
	logger   *zap.Logger
	now      func() time.Time
}

func NewScheduler(onExpire ExpireFunc, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		entries:  make(map[Key]*entry),
		onExpire: onExpire,
		logger:   logger,
		now:      time.Now,
	}
}

// SetExpireFunc replaces the callback. It must be called before the first Arm.
func (s *Scheduler) SetExpireFunc(fn ExpireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

// Arm starts (or restarts) the countdown for questionID. Any countdown already
// running for key is cancelled. A deadline in the past fires right away.
func (s *Scheduler) Arm(key Key, questionID string, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	draft := ""
	if prev, ok := s.entries[key]; ok {
		prev.timer.Stop()
		if prev.questionID == questionID {
			draft = prev.draft
		}
	}

	s.gen++
	e := &entry{questionID: questionID, deadline: deadline, draft: draft, gen: s.gen}
	gen := s.gen
	e.timer = time.AfterFunc(deadline.Sub(s.now()), func() { s.fire(key, gen) })
	s.entries[key] = e

	s.logger.Debug("question timer armed",
		zap.String("candidate_id", key.CandidateID),
		zap.String("question_id", questionID),
		zap.Time("deadline", deadline))
}

// SetDraft records the in-progress answer. It reports false when no countdown
// for questionID is running.
func (s *Scheduler) SetDraft(key Key, questionID, draft string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.questionID != questionID {
		return false
	}
	e.draft = draft
	return true
}

// Disarm cancels the countdown for questionID and returns the held draft.
func (s *Scheduler) Disarm(key Key, questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || (questionID != "" && e.questionID != questionID) {
		return "", false
	}
	e.timer.Stop()
	delete(s.entries, key)
	return e.draft, true
}

// Pending returns the running countdown for key, if any.
func (s *Scheduler) Pending(key Key) (questionID string, deadline time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", time.Time{}, false
	}
	return e.questionID, e.deadline, true
}

// Stop cancels every countdown. Later calls to Arm are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for k, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, k)
	}
}

func (s *Scheduler) fire(key Key, gen uint64) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.gen != gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.entries, key)
	fn := s.onExpire
	s.mu.Unlock()

	s.logger.Info("question timer expired",
		zap.String("candidate_id", key.CandidateID),
		zap.String("question_id", e.questionID))
	if fn != nil {
		fn(Expiry{Key: key, QuestionID: e.questionID, Draft: e.draft, Deadline: e.deadline})
	}
}

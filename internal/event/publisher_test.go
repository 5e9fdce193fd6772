package event

import (
	"context"
	"testing"

	"peerprep/interview/internal/models"
)

var (
	_ Publisher = (*EventPublisher)(nil)
	_ Publisher = (*MockPublisher)(nil)
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := NewEventPublisher("", nil)
	if err != nil {
		t.Fatalf("NewEventPublisher: %v", err)
	}
	if p.Enabled() {
		t.Fatal("publisher without URI must be disabled")
	}
	ev := &models.InterviewEvent{EventType: models.EventInterviewCompleted, CandidateID: "c1"}
	if err := p.PublishInterviewEvent(context.Background(), ev); err != nil {
		t.Fatalf("disabled publish should be a no-op, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewEventPublisherRejectsBadURI(t *testing.T) {
	if _, err := NewEventPublisher("not-a-uri", nil); err == nil {
		t.Fatal("expected a dial error for a malformed URI")
	}
}

func TestMockPublisherRecords(t *testing.T) {
	m := NewMockPublisher()
	m.PublishInterviewEvent(context.Background(), &models.InterviewEvent{CandidateID: "c1", FinalScore: 80})
	got := m.Published()
	if len(got) != 1 || got[0].FinalScore != 80 {
		t.Fatalf("unexpected events %+v", got)
	}
}

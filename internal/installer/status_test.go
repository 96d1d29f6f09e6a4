package installer

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	q.Send(ProgressStatus{Fraction: 0.1, Text: "one"})
	q.Send(ProgressStatus{Fraction: 0.5, Text: "two"})
	q.Send(SuccessStatus{Text: "three"})

	want := []string{"one", "two", "three"}
	for i, text := range want {
		s, ok := q.TryRecv()
		if !ok {
			t.Fatalf("message %d missing", i)
		}
		switch s := s.(type) {
		case ProgressStatus:
			if s.Text != text {
				t.Errorf("message %d: got %q, want %q", i, s.Text, text)
			}
		case SuccessStatus:
			if s.Text != text {
				t.Errorf("message %d: got %q, want %q", i, s.Text, text)
			}
		}
	}

	if _, ok := q.TryRecv(); ok {
		t.Error("expected empty queue after draining")
	}
}

func TestQueueTryRecvEmpty(t *testing.T) {
	q := NewQueue()

	if s, ok := q.TryRecv(); ok {
		t.Errorf("expected no message, got %#v", s)
	}
}

func TestQueueSendAfterCloseDropped(t *testing.T) {
	q := NewQueue()
	q.Close()

	// Must not block or panic once the consumer is gone.
	q.Send(ProgressStatus{Fraction: 0.5, Text: "late"})
	q.Send(ErrorStatus{Text: "later"})

	if s, ok := q.TryRecv(); ok {
		t.Errorf("expected closed queue to drop sends, got %#v", s)
	}
}

func TestQueueClampsFractions(t *testing.T) {
	q := NewQueue()

	q.Send(ProgressStatus{Fraction: -0.5, Text: "low"})
	q.Send(ProgressStatus{Fraction: 1.5, Text: "high"})

	s, _ := q.TryRecv()
	if p := s.(ProgressStatus); p.Fraction != 0 {
		t.Errorf("got fraction %v, want 0", p.Fraction)
	}
	s, _ = q.TryRecv()
	if p := s.(ProgressStatus); p.Fraction != 1 {
		t.Errorf("got fraction %v, want 1", p.Fraction)
	}
}

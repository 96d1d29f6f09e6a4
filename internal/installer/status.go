package installer

import "sync"

// Status is a message from the worker to the coordinator. Exactly one
// terminal status (SuccessStatus or ErrorStatus) is emitted per
// installation attempt, and nothing follows it.
type Status interface {
	isStatus()
}

// ProgressStatus reports a milestone. Fraction is in [0, 1] and
// non-decreasing across one attempt.
type ProgressStatus struct {
	Fraction float64
	Text     string
}

// SuccessStatus is the terminal status of a completed install.
type SuccessStatus struct {
	Text string
}

// ErrorStatus is the terminal status of a failed install.
type ErrorStatus struct {
	Text string
}

func (ProgressStatus) isStatus() {}
func (SuccessStatus) isStatus()  {}
func (ErrorStatus) isStatus()    {}

// Queue is the single-producer single-consumer transport between the
// worker and the coordinator. Send never blocks and never fails the
// worker; once the consumer has closed the queue, further sends are
// silently discarded. TryRecv never blocks and delivers in emission
// order.
type Queue struct {
	mu      sync.Mutex
	pending []Status
	closed  bool
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Send enqueues s. Progress fractions are clamped into [0, 1].
func (q *Queue) Send(s Status) {
	if p, ok := s.(ProgressStatus); ok {
		if p.Fraction < 0 {
			p.Fraction = 0
		}
		if p.Fraction > 1 {
			p.Fraction = 1
		}
		s = p
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending = append(q.pending, s)
}

// TryRecv pops the oldest pending status, or reports that none is
// available right now.
func (q *Queue) TryRecv() (Status, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, false
	}
	s := q.pending[0]
	q.pending = q.pending[1:]
	return s, true
}

// Close marks the consumer as gone. Pending and future sends are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}

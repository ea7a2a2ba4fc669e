package llm

import "context"

// MockGenerator is a scripted stand-in for Client used by loop-controller
// tests, grounded on the teacher's MockClient but narrowed to the single
// Generate(ctx, prompt) (string, error) surface the loop controller
// actually calls.
type MockGenerator struct {
	// Replies is returned in order, one per call; the last entry repeats
	// once exhausted.
	Replies []string
	// Err, if set, is returned instead of consuming Replies.
	Err error

	calls  int
	served int
}

// Generate returns the next scripted reply, or Err if set.
func (m *MockGenerator) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	idx := m.served
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	m.served++
	return m.Replies[idx], nil
}

// Calls reports how many times Generate has been invoked.
func (m *MockGenerator) Calls() int { return m.calls }

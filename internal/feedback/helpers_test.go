package feedback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

// callParams records the sampling parameters of one completion call.
type callParams struct {
	userPrompt  string
	temperature float32
	maxTokens   int
}

// fakeAI scripts completion responses per operation. Operations are
// identified by their system prompt so the fake stays deterministic even
// when the service fans the four operations out concurrently.
type fakeAI struct {
	mu         sync.Mutex
	configured bool
	calls      map[string]int
	params     map[string][]callParams
	script     func(op string, call int) (string, error)
}

func newFakeAI(script func(op string, call int) (string, error)) *fakeAI {
	return &fakeAI{
		configured: true,
		calls:      make(map[string]int),
		params:     make(map[string][]callParams),
		script:     script,
	}
}

func (f *fakeAI) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

func (f *fakeAI) Complete(_ context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.configured {
		return "", ai.ErrNotConfigured
	}

	op := opFromSystemPrompt(systemPrompt)
	f.calls[op]++
	f.params[op] = append(f.params[op], callParams{
		userPrompt:  userPrompt,
		temperature: temperature,
		maxTokens:   maxTokens,
	})
	return f.script(op, f.calls[op])
}

func (f *fakeAI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAI) lastParams(t *testing.T, op string) callParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.params[op]) == 0 {
		t.Fatalf("no calls recorded for %s", op)
	}
	return f.params[op][len(f.params[op])-1]
}

func opFromSystemPrompt(systemPrompt string) string {
	switch systemPrompt {
	case ratingSystemPrompt:
		return opPredict
	case replySystemPrompt:
		return opReply
	case summarySystemPrompt:
		return opSummary
	case actionsSystemPrompt:
		return opActions
	}
	return "unknown"
}

var errTransient = errors.New("connection reset")

// sleepRecorder replaces time.Sleep in retry policies so tests can
// assert the backoff schedule without waiting.
type sleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (r *sleepRecorder) sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slept = append(r.slept, d)
}

func (r *sleepRecorder) durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.slept))
	copy(out, r.slept)
	return out
}

type fakeRepo struct {
	mu      sync.Mutex
	saved   []Submission
	saveErr error
	nextID  int64
}

func (r *fakeRepo) Save(_ context.Context, sub *Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.nextID++
	sub.ID = r.nextID
	sub.CreatedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.nextID) * time.Second)
	r.saved = append(r.saved, *sub)
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Submission, len(r.saved))
	copy(out, r.saved)
	return out, nil
}

func (r *fakeRepo) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

// newTestService wires a service around fakes with recorded sleeps and a
// throwaway metrics registry.
func newTestService(client ai.AI, repo Repo) (*service, *sleepRecorder) {
	rec := &sleepRecorder{}
	return &service{
		repo:          repo,
		ai:            client,
		log:           zap.NewNop(),
		metrics:       NewMetrics(prometheus.NewRegistry()),
		predictPolicy: retryPolicy{maxAttempts: 3, backoff: time.Second, sleep: rec.sleep},
		replyPolicy:   retryPolicy{maxAttempts: 3, backoff: 2 * time.Second, sleep: rec.sleep},
		summaryPolicy: retryPolicy{maxAttempts: 3, backoff: 2 * time.Second, sleep: rec.sleep},
		actionsPolicy: retryPolicy{maxAttempts: 3, backoff: time.Second, sleep: rec.sleep},
	}, rec
}

package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Account store stub. IncrementUsage is atomic under the mutex, mirroring the
// single-statement increment of the real stores.
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Account
	nextID     int
	incrErr    error
	findErr    error
	increments int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) seed(a domain.Account) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		r.nextID++
		a.ID = strconv.Itoa(r.nextID)
	}
	r.byID[a.ID] = cloneAccount(&a)
	return cloneAccount(&a)
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Create(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == acct.Email {
			return nil, domain.ErrAccountExists
		}
	}
	c := cloneAccount(acct)
	r.nextID++
	c.ID = strconv.Itoa(r.nextID)
	if c.PromptsLimit == 0 {
		c.PromptsLimit = domain.DefaultPromptsLimit
	}
	r.byID[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) IncrementUsage(_ context.Context, id string) (domain.Quota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrErr != nil {
		return domain.Quota{}, r.incrErr
	}
	a, ok := r.byID[id]
	if !ok {
		return domain.Quota{}, domain.ErrAccountNotFound
	}
	a.PromptsUsed++
	r.increments++
	return a.Quota(), nil
}

func (r *stubAccountRepo) used(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].PromptsUsed
}

func (r *stubAccountRepo) incrementCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.increments
}

// ---------------------------------------------------------------------------
// Completion gateway stub with a call counter.
// ---------------------------------------------------------------------------

type stubGateway struct {
	calls   atomic.Int64
	answer  string
	err     error
	mu      sync.Mutex
	lastReq ports.CompletionRequest
	// block, when set, is waited on before answering.
	block chan struct{}
}

func (g *stubGateway) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.lastReq = req
	g.mu.Unlock()
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

// ---------------------------------------------------------------------------
// Meter stub.
// ---------------------------------------------------------------------------

type stubMeter struct {
	mu             sync.Mutex
	outcomes       []string
	commits        int
	commitFailures int
}

func (m *stubMeter) OnAsk(o string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

func (m *stubMeter) OnCompletion(_ time.Duration, _ bool) {}

func (m *stubMeter) OnCommit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits++
}

func (m *stubMeter) OnCommitFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitFailures++
}

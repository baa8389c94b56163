package service_test

import (
	"context"
	"sync"
	"time"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
	"supportdesk.app/engine/internal/store"
)

const tenantID int64 = 7

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ domain.Clock = (*fakeClock)(nil)

type recordingPublisher struct {
	mu        sync.Mutex
	published []events.Event
	publishFn func(ctx context.Context, event events.Event) error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	p.published = append(p.published, event)
	p.mu.Unlock()
	if p.publishFn != nil {
		return p.publishFn(ctx, event)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.Type)
	}
	return out
}

type mockSessionStore struct {
	getValidFn func(ctx context.Context, id int64) (*model.Session, error)
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

type mockAgentStore struct {
	getByIDFn     func(ctx context.Context, id int64) (*model.Agent, error)
	getInTenantFn func(ctx context.Context, tenantID, id int64) (*model.Agent, error)
}

func (m *mockAgentStore) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockAgentStore) GetInTenant(ctx context.Context, tenantID, id int64) (*model.Agent, error) {
	if m.getInTenantFn != nil {
		return m.getInTenantFn(ctx, tenantID, id)
	}
	return nil, store.ErrNotFound
}

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return nil
}

// overrideProvider swaps the conversation store of an underlying provider,
// so a test can force a CAS to lose after the precondition read.
type overrideProvider struct {
	service.StoreProvider
	conversations store.ConversationStore
}

func (p *overrideProvider) Conversations() store.ConversationStore {
	return p.conversations
}

type losingClaimStore struct {
	store.ConversationStore
}

func (losingClaimStore) ClaimIfWaiting(context.Context, int64, int64, int64, time.Time) (bool, *model.Conversation, error) {
	return false, nil, nil
}

func (losingClaimStore) Reassign(context.Context, int64, int64, int64, int64, time.Time) (bool, *model.Conversation, error) {
	return false, nil, nil
}

// fixture bundles the in-memory database with the clock and publisher every
// test shares.
type fixture struct {
	db        *memDB
	clock     *fakeClock
	publisher *recordingPublisher
	t0        time.Time
}

func newFixture() *fixture {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &fixture{
		db:        newMemDB(),
		clock:     &fakeClock{now: t0},
		publisher: &recordingPublisher{},
		t0:        t0,
	}
}

func (f *fixture) agent(agentID int64, roles ...model.Role) model.Caller {
	f.db.putAgent(model.Agent{
		ID:       agentID,
		TenantID: tenantID,
		Name:     "agent",
		Email:    "agent@example.com",
		Roles:    roles,
		IsActive: true,
	})
	return model.Caller{
		AgentID:      agentID,
		TenantID:     tenantID,
		Roles:        roles,
		Capabilities: domain.CapabilitiesFor(roles, false),
	}
}

func (f *fixture) onShift(agentID int64) model.AgentShift {
	shift := model.AgentShift{ID: agentID * 1000, TenantID: tenantID, AgentID: agentID, StartedAt: f.t0}
	f.db.putShift(shift)
	return shift
}

func (f *fixture) waiting(conversationID int64) model.Conversation {
	conv := model.Conversation{
		ID:        conversationID,
		TenantID:  tenantID,
		ContactID: conversationID + 500,
		Status:    model.ConversationStatusWaiting,
		Priority:  model.DefaultConversationPriority,
		CreatedAt: f.t0,
		UpdatedAt: f.t0,
	}
	f.db.putConversation(conv)
	return conv
}

func (f *fixture) assigned(conversationID, agentID int64) model.Conversation {
	conv := f.waiting(conversationID)
	conv.Status = model.ConversationStatusInProgress
	conv.AssignedAgentID = ptrTo(agentID)
	f.db.putConversation(conv)
	return conv
}

func (f *fixture) runningTimer(conversationID int64, responseSeconds int32) model.SlaTimer {
	timer := model.SlaTimer{
		ConversationID:          conversationID,
		TenantID:                tenantID,
		ResponseSeconds:         responseSeconds,
		WarningThresholdPercent: 80,
		StartedAt:               f.clock.Now(),
		DueAt:                   f.clock.Now().Add(time.Duration(responseSeconds) * time.Second),
	}
	f.db.putTimer(timer)
	return timer
}

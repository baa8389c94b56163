package service_test

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
	"supportdesk.app/engine/internal/store"
)

// memDB is an in-memory stand-in for Postgres. Transactions are serialized
// by a mutex and roll back by restoring a snapshot; the CAS methods follow
// the same WHERE clauses as the SQL.
type memDB struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	conversations map[int64]model.Conversation
	timers        map[int64]model.SlaTimer
	policies      []model.SlaPolicy
	slaEvents     []model.SlaEvent
	shifts        map[int64]model.AgentShift
	pauses        map[int64]model.AgentPause
	agents        map[int64]model.Agent
	audits        []model.AuditLog
}

func newMemDB() *memDB {
	return &memDB{state: memState{
		conversations: map[int64]model.Conversation{},
		timers:        map[int64]model.SlaTimer{},
		shifts:        map[int64]model.AgentShift{},
		pauses:        map[int64]model.AgentPause{},
		agents:        map[int64]model.Agent{},
	}}
}

func (s memState) clone() memState {
	return memState{
		conversations: maps.Clone(s.conversations),
		timers:        maps.Clone(s.timers),
		policies:      slices.Clone(s.policies),
		slaEvents:     slices.Clone(s.slaEvents),
		shifts:        maps.Clone(s.shifts),
		pauses:        maps.Clone(s.pauses),
		agents:        maps.Clone(s.agents),
		audits:        slices.Clone(s.audits),
	}
}

func (db *memDB) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.state.clone()
	if err := fn(&memStores{db: db, tx: true}); err != nil {
		db.state = snapshot
		return err
	}
	return nil
}

// Stores returns non-transactional stores; each call locks on its own.
func (db *memDB) Stores() service.StoreProvider {
	return &memStores{db: db}
}

// Seed and inspection helpers.

func (db *memDB) putAgent(a model.Agent) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.agents[a.ID] = a
}

func (db *memDB) putConversation(c model.Conversation) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.conversations[c.ID] = c
}

func (db *memDB) putTimer(t model.SlaTimer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.timers[t.ConversationID] = t
}

func (db *memDB) putShift(s model.AgentShift) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.shifts[s.ID] = s
}

func (db *memDB) putPause(p model.AgentPause) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.pauses[p.ID] = p
}

func (db *memDB) putPolicy(p model.SlaPolicy) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.state.policies = append(db.state.policies, p)
}

func (db *memDB) conversation(id int64) model.Conversation {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.conversations[id]
}

func (db *memDB) conversationsByContact(tenantID, contactID int64) []model.Conversation {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.Conversation
	for _, c := range db.state.conversations {
		if c.TenantID == tenantID && c.ContactID == contactID {
			out = append(out, c)
		}
	}
	return out
}

func (db *memDB) timer(conversationID int64) (model.SlaTimer, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := db.state.timers[conversationID]
	return t, ok
}

func (db *memDB) openShifts(tenantID, agentID int64) []model.AgentShift {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.AgentShift
	for _, s := range db.state.shifts {
		if s.TenantID == tenantID && s.AgentID == agentID && s.EndedAt == nil {
			out = append(out, s)
		}
	}
	return out
}

func (db *memDB) shift(id int64) model.AgentShift {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.shifts[id]
}

func (db *memDB) openPauses(shiftID int64) []model.AgentPause {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.AgentPause
	for _, p := range db.state.pauses {
		if p.ShiftID == shiftID && p.EndedAt == nil {
			out = append(out, p)
		}
	}
	return out
}

func (db *memDB) slaEvents() []model.SlaEvent {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.state.slaEvents)
}

func (db *memDB) audits() []model.AuditLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.state.audits)
}

// assignmentConsistent reports whether every conversation carries an owner
// exactly when it is in progress.
func (db *memDB) assignmentConsistent() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.state.conversations {
		if (c.Status == model.ConversationStatusInProgress) != (c.AssignedAgentID != nil) {
			return false
		}
	}
	return true
}

type memStores struct {
	db *memDB
	tx bool
}

func (m *memStores) lock() func() {
	if m.tx {
		return func() {}
	}
	m.db.mu.Lock()
	return m.db.mu.Unlock
}

func (m *memStores) Conversations() store.ConversationStore { return memConversations{m} }
func (m *memStores) SlaTimers() store.SlaTimerStore         { return memTimers{m} }
func (m *memStores) SlaPolicies() store.SlaPolicyStore      { return memPolicies{m} }
func (m *memStores) SlaEvents() store.SlaEventStore         { return memSlaEvents{m} }
func (m *memStores) Shifts() store.ShiftStore               { return memShifts{m} }
func (m *memStores) Pauses() store.PauseStore               { return memPauses{m} }
func (m *memStores) Agents() store.AgentStore               { return memAgents{m} }
func (m *memStores) AuditLogs() store.AuditLogStore         { return memAudits{m} }

func ptrTo[T any](v T) *T { return &v }

type memConversations struct{ *memStores }

func (m memConversations) get(tenantID, id int64) (model.Conversation, bool) {
	c, ok := m.db.state.conversations[id]
	if !ok || c.TenantID != tenantID {
		return model.Conversation{}, false
	}
	return c, true
}

func (m memConversations) put(c model.Conversation) *model.Conversation {
	m.db.state.conversations[c.ID] = c
	return &c
}

func (m memConversations) GetByID(_ context.Context, tenantID, id int64) (*model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m memConversations) GetOpenByContact(_ context.Context, tenantID, contactID int64) (*model.Conversation, error) {
	defer m.lock()()
	for _, c := range m.db.state.conversations {
		if c.TenantID == tenantID && c.ContactID == contactID && c.Status != model.ConversationStatusClosed {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memConversations) Create(_ context.Context, conv *model.Conversation) error {
	defer m.lock()()
	for _, c := range m.db.state.conversations {
		if c.TenantID == conv.TenantID && c.ContactID == conv.ContactID && c.Status != model.ConversationStatusClosed {
			return fmt.Errorf("%w: conversations_one_open_per_contact", store.ErrUniqueViolation)
		}
	}
	m.put(*conv)
	return nil
}

func (m memConversations) ClaimIfWaiting(_ context.Context, tenantID, id, agentID int64, now time.Time) (bool, *model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status != model.ConversationStatusWaiting || c.AssignedAgentID != nil {
		return false, nil, nil
	}
	c.Status = model.ConversationStatusInProgress
	c.AssignedAgentID = ptrTo(agentID)
	c.UpdatedAt = now
	return true, m.put(c), nil
}

func (m memConversations) Reassign(_ context.Context, tenantID, id, fromAgentID, toAgentID int64, now time.Time) (bool, *model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status != model.ConversationStatusInProgress || !c.IsAssignedTo(fromAgentID) {
		return false, nil, nil
	}
	c.AssignedAgentID = ptrTo(toAgentID)
	c.UpdatedAt = now
	return true, m.put(c), nil
}

func (m memConversations) Release(_ context.Context, tenantID, id, expectedAgentID int64, now time.Time) (bool, *model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status != model.ConversationStatusInProgress || !c.IsAssignedTo(expectedAgentID) {
		return false, nil, nil
	}
	c.Status = model.ConversationStatusWaiting
	c.AssignedAgentID = nil
	c.UpdatedAt = now
	return true, m.put(c), nil
}

func (m memConversations) ReleaseByAgent(_ context.Context, tenantID, agentID int64, now time.Time) ([]int64, error) {
	defer m.lock()()
	var ids []int64
	for _, id := range slices.Sorted(maps.Keys(m.db.state.conversations)) {
		c := m.db.state.conversations[id]
		if c.TenantID != tenantID || c.Status != model.ConversationStatusInProgress || !c.IsAssignedTo(agentID) {
			continue
		}
		c.Status = model.ConversationStatusWaiting
		c.AssignedAgentID = nil
		c.UpdatedAt = now
		m.put(c)
		ids = append(ids, id)
	}
	return ids, nil
}

func (m memConversations) Close(_ context.Context, tenantID, id int64, now time.Time) (bool, *model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status == model.ConversationStatusClosed {
		return false, nil, nil
	}
	c.Status = model.ConversationStatusClosed
	c.AssignedAgentID = nil
	c.ClosedAt = ptrTo(now)
	c.UpdatedAt = now
	return true, m.put(c), nil
}

func (m memConversations) RecordCustomerMessage(_ context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status == model.ConversationStatusClosed {
		return nil, store.ErrNotFound
	}
	c.LastCustomerMessageAt = ptrTo(at)
	c.UpdatedAt = now
	return m.put(c), nil
}

func (m memConversations) RecordAgentMessage(_ context.Context, tenantID, id int64, at, now time.Time) (*model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status == model.ConversationStatusClosed {
		return nil, store.ErrNotFound
	}
	c.LastAgentMessageAt = ptrTo(at)
	c.UpdatedAt = now
	return m.put(c), nil
}

func (m memConversations) MoveStage(_ context.Context, tenantID, id int64, stageID *int64, now time.Time) (*model.Conversation, error) {
	defer m.lock()()
	c, ok := m.get(tenantID, id)
	if !ok || c.Status == model.ConversationStatusClosed {
		return nil, store.ErrNotFound
	}
	c.CurrentStageID = stageID
	c.LastStageMovedAt = ptrTo(now)
	c.UpdatedAt = now
	return m.put(c), nil
}

func (m memConversations) ListOpen(_ context.Context, tenantID int64, limit int32) ([]model.Conversation, error) {
	defer m.lock()()
	var out []model.Conversation
	for _, c := range m.db.state.conversations {
		if c.TenantID == tenantID && c.Status != model.ConversationStatusClosed {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.Conversation) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

func (m memConversations) ListIdleAssigned(_ context.Context, cutoff time.Time, limit int32) ([]model.Conversation, error) {
	defer m.lock()()
	var out []model.Conversation
	for _, c := range m.db.state.conversations {
		if c.Status != model.ConversationStatusInProgress || c.LastCustomerMessageAt == nil {
			continue
		}
		if c.LastCustomerMessageAt.After(cutoff) {
			continue
		}
		if c.LastAgentMessageAt != nil && !c.LastAgentMessageAt.Before(*c.LastCustomerMessageAt) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Conversation) int {
		return a.LastCustomerMessageAt.Compare(*b.LastCustomerMessageAt)
	})
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

type memTimers struct{ *memStores }

func (m memTimers) put(t model.SlaTimer) *model.SlaTimer {
	m.db.state.timers[t.ConversationID] = t
	return &t
}

func (m memTimers) Get(_ context.Context, conversationID int64) (*model.SlaTimer, error) {
	defer m.lock()()
	t, ok := m.db.state.timers[conversationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (m memTimers) Start(_ context.Context, timer *model.SlaTimer) error {
	defer m.lock()()
	t := *timer
	t.PausedAt, t.BreachedAt, t.StoppedAt = nil, nil, nil
	*timer = *m.put(t)
	return nil
}

func (m memTimers) Pause(_ context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error) {
	defer m.lock()()
	t, ok := m.db.state.timers[conversationID]
	if !ok || t.PausedAt != nil || t.StoppedAt != nil {
		return false, nil, nil
	}
	t.PausedAt = ptrTo(now)
	return true, m.put(t), nil
}

func (m memTimers) Resume(_ context.Context, conversationID int64) (bool, *model.SlaTimer, error) {
	defer m.lock()()
	t, ok := m.db.state.timers[conversationID]
	if !ok || t.PausedAt == nil || t.StoppedAt != nil {
		return false, nil, nil
	}
	t.PausedAt = nil
	return true, m.put(t), nil
}

func (m memTimers) LatchBreach(_ context.Context, conversationID int64, now time.Time) (bool, *model.SlaTimer, error) {
	defer m.lock()()
	t, ok := m.db.state.timers[conversationID]
	if !ok || t.BreachedAt != nil || t.PausedAt != nil || t.StoppedAt != nil || t.DueAt.After(now) {
		return false, nil, nil
	}
	t.BreachedAt = ptrTo(now)
	return true, m.put(t), nil
}

func (m memTimers) Stop(_ context.Context, conversationID int64, now time.Time) error {
	defer m.lock()()
	t, ok := m.db.state.timers[conversationID]
	if ok && t.StoppedAt == nil {
		t.StoppedAt = ptrTo(now)
		m.put(t)
	}
	return nil
}

func (m memTimers) Delete(_ context.Context, conversationID int64) error {
	defer m.lock()()
	delete(m.db.state.timers, conversationID)
	return nil
}

func (m memTimers) ListForConversations(_ context.Context, conversationIDs []int64) ([]model.SlaTimer, error) {
	defer m.lock()()
	var out []model.SlaTimer
	for _, id := range conversationIDs {
		if t, ok := m.db.state.timers[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTimers) ListDue(_ context.Context, now time.Time, limit int32) ([]model.SlaTimer, error) {
	defer m.lock()()
	var out []model.SlaTimer
	for _, t := range m.db.state.timers {
		if t.BreachedAt == nil && t.PausedAt == nil && t.StoppedAt == nil && !t.DueAt.After(now) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b model.SlaTimer) int { return a.DueAt.Compare(b.DueAt) })
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

type memPolicies struct{ *memStores }

func (m memPolicies) ListByTenant(_ context.Context, tenantID int64) ([]model.SlaPolicy, error) {
	defer m.lock()()
	var out []model.SlaPolicy
	for _, p := range m.db.state.policies {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSlaEvents struct{ *memStores }

func (m memSlaEvents) Create(_ context.Context, event *model.SlaEvent) error {
	defer m.lock()()
	m.db.state.slaEvents = append(m.db.state.slaEvents, *event)
	return nil
}

type memShifts struct{ *memStores }

func (m memShifts) GetOpen(_ context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	defer m.lock()()
	for _, s := range m.db.state.shifts {
		if s.TenantID == tenantID && s.AgentID == agentID && s.EndedAt == nil {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memShifts) LockOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	return m.GetOpen(ctx, tenantID, agentID)
}

func (m memShifts) ShareOpen(ctx context.Context, tenantID, agentID int64) (*model.AgentShift, error) {
	return m.GetOpen(ctx, tenantID, agentID)
}

func (m memShifts) Create(_ context.Context, shift *model.AgentShift) error {
	defer m.lock()()
	for _, s := range m.db.state.shifts {
		if s.TenantID == shift.TenantID && s.AgentID == shift.AgentID && s.EndedAt == nil {
			return fmt.Errorf("%w: agent_shifts_one_open", store.ErrUniqueViolation)
		}
	}
	m.db.state.shifts[shift.ID] = *shift
	return nil
}

func (m memShifts) AddPausedMinutes(_ context.Context, shiftID int64, minutes int32) error {
	defer m.lock()()
	s, ok := m.db.state.shifts[shiftID]
	if !ok {
		return store.ErrNotFound
	}
	s.TotalMinutesPaused += minutes
	m.db.state.shifts[shiftID] = s
	return nil
}

func (m memShifts) Finish(_ context.Context, shiftID int64, endedAt time.Time, worked, paused int32) (*model.AgentShift, error) {
	defer m.lock()()
	s, ok := m.db.state.shifts[shiftID]
	if !ok || s.EndedAt != nil {
		return nil, store.ErrNotFound
	}
	s.EndedAt = ptrTo(endedAt)
	s.TotalMinutesWorked = worked
	s.TotalMinutesPaused = paused
	m.db.state.shifts[shiftID] = s
	return &s, nil
}

func (m memShifts) ListClosed(_ context.Context, tenantID, agentID int64, limit int32) ([]model.AgentShift, error) {
	defer m.lock()()
	var out []model.AgentShift
	for _, s := range m.db.state.shifts {
		if s.TenantID == tenantID && s.AgentID == agentID && s.EndedAt != nil {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b model.AgentShift) int { return b.StartedAt.Compare(a.StartedAt) })
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

type memPauses struct{ *memStores }

func (m memPauses) GetOpen(_ context.Context, shiftID int64) (*model.AgentPause, error) {
	defer m.lock()()
	for _, p := range m.db.state.pauses {
		if p.ShiftID == shiftID && p.EndedAt == nil {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memPauses) Create(_ context.Context, pause *model.AgentPause) error {
	defer m.lock()()
	for _, p := range m.db.state.pauses {
		if p.ShiftID == pause.ShiftID && p.EndedAt == nil {
			return fmt.Errorf("%w: agent_pauses_one_open", store.ErrUniqueViolation)
		}
	}
	m.db.state.pauses[pause.ID] = *pause
	return nil
}

func (m memPauses) Finish(_ context.Context, pauseID int64, endedAt time.Time, minutes int32) (*model.AgentPause, error) {
	defer m.lock()()
	p, ok := m.db.state.pauses[pauseID]
	if !ok || p.EndedAt != nil {
		return nil, store.ErrNotFound
	}
	p.EndedAt = ptrTo(endedAt)
	p.MinutesDuration = minutes
	m.db.state.pauses[pauseID] = p
	return &p, nil
}

func (m memPauses) ListByShift(ctx context.Context, shiftID int64) ([]model.AgentPause, error) {
	return m.ListByShifts(ctx, []int64{shiftID})
}

func (m memPauses) ListByShifts(_ context.Context, shiftIDs []int64) ([]model.AgentPause, error) {
	defer m.lock()()
	var out []model.AgentPause
	for _, p := range m.db.state.pauses {
		if slices.Contains(shiftIDs, p.ShiftID) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.AgentPause) int { return a.StartedAt.Compare(b.StartedAt) })
	return out, nil
}

type memAgents struct{ *memStores }

func (m memAgents) GetByID(_ context.Context, id int64) (*model.Agent, error) {
	defer m.lock()()
	a, ok := m.db.state.agents[id]
	if !ok || !a.IsActive {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m memAgents) GetInTenant(_ context.Context, tenantID, id int64) (*model.Agent, error) {
	defer m.lock()()
	a, ok := m.db.state.agents[id]
	if !ok || a.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

type memAudits struct{ *memStores }

func (m memAudits) Create(_ context.Context, entry *model.AuditLog) error {
	defer m.lock()()
	m.db.state.audits = append(m.db.state.audits, *entry)
	return nil
}

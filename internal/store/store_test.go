package store_test

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/core/db/sqlc"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/store"
)

var _ = Describe("Stores", func() {
	var (
		ctx    context.Context
		db     *fakeDB
		stores *store.Stores
		now    time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = &fakeDB{}
		stores = store.NewStores(sqlc.New(db))
		now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	})

	conversationRow := func(id int64, status string, agent *int64) fakeRow {
		ts := pgtype.Timestamptz{Time: now, Valid: true}
		return fakeRow{values: []any{
			id, int64(7), int64(500), nil, nil, status, agent, int32(100),
			ts, nil, nil, nil, ts, ts,
		}}
	}

	Describe("ConversationStore", func() {
		It("maps a missing row to ErrNotFound", func() {
			_, err := stores.Conversations().GetByID(ctx, 7, 1)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("reports a lost claim race as false without error", func() {
			ok, conv, err := stores.Conversations().ClaimIfWaiting(ctx, 7, 1, 42, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(conv).To(BeNil())
		})

		It("returns the claimed conversation on success", func() {
			agent := int64(42)
			db.rows = []fakeRow{conversationRow(1, "in_progress", &agent)}

			ok, conv, err := stores.Conversations().ClaimIfWaiting(ctx, 7, 1, 42, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(conv.Status).To(Equal(model.ConversationStatusInProgress))
			Expect(conv.IsAssignedTo(42)).To(BeTrue())
			Expect(conv.LastCustomerMessageAt).NotTo(BeNil())
			Expect(conv.LastAgentMessageAt).To(BeNil())

			Expect(db.lastSQL).To(ContainSubstring("status = 'waiting' AND assigned_agent_id IS NULL"))
			Expect(*db.lastArgs[0].(*int64)).To(Equal(int64(42)))
		})

		It("passes through unexpected errors", func() {
			boom := errors.New("connection reset")
			db.rows = []fakeRow{{err: boom}}

			_, _, err := stores.Conversations().Close(ctx, 7, 1, now)
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("ShiftStore", func() {
		It("maps the one-open-shift index to ErrUniqueViolation", func() {
			db.rows = []fakeRow{{err: &pgconn.PgError{Code: "23505", ConstraintName: "agent_shifts_one_open"}}}

			err := stores.Shifts().Create(ctx, &model.AgentShift{ID: 1, TenantID: 7, AgentID: 42, StartedAt: now})
			Expect(err).To(MatchError(store.ErrUniqueViolation))
			Expect(err.Error()).To(ContainSubstring("agent_shifts_one_open"))
		})

		It("locks the open shift for update", func() {
			_, err := stores.Shifts().LockOpen(ctx, 7, 42)
			Expect(err).To(MatchError(store.ErrNotFound))
			Expect(db.lastSQL).To(ContainSubstring("FOR UPDATE"))
		})

		It("reads the open shift for share", func() {
			_, err := stores.Shifts().ShareOpen(ctx, 7, 42)
			Expect(err).To(MatchError(store.ErrNotFound))
			Expect(db.lastSQL).To(ContainSubstring("FOR SHARE"))
		})
	})

	Describe("PauseStore", func() {
		It("maps the one-open-pause index to ErrUniqueViolation", func() {
			db.rows = []fakeRow{{err: &pgconn.PgError{Code: "23505", ConstraintName: "agent_pauses_one_open"}}}

			err := stores.Pauses().Create(ctx, &model.AgentPause{ID: 1, ShiftID: 9, Reason: model.PauseReasonCoffee, StartedAt: now})
			Expect(err).To(MatchError(store.ErrUniqueViolation))
		})

		It("leaves other database errors alone", func() {
			db.rows = []fakeRow{{err: &pgconn.PgError{Code: "23514"}}}

			err := stores.Pauses().Create(ctx, &model.AgentPause{ID: 1, ShiftID: 9, Reason: model.PauseReasonOther, StartedAt: now})
			Expect(err).NotTo(MatchError(store.ErrUniqueViolation))
		})

		It("skips the query for an empty shift list", func() {
			pauses, err := stores.Pauses().ListByShifts(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(pauses).To(BeEmpty())
			Expect(db.lastSQL).To(BeEmpty())
		})
	})

	Describe("SlaTimerStore", func() {
		It("treats a latch on an already breached timer as not latched", func() {
			ok, timer, err := stores.SlaTimers().LatchBreach(ctx, 1, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(timer).To(BeNil())
			Expect(db.lastSQL).To(ContainSubstring("breached_at IS NULL AND paused_at IS NULL"))
		})
	})

	Describe("AuditLogStore", func() {
		It("writes empty snapshots as NULL", func() {
			err := stores.AuditLogs().Create(ctx, &model.AuditLog{
				ID: 1, TenantID: 7, Action: model.AuditActionClose, EntityType: "conversation", EntityID: 3, CreatedAt: now,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(db.lastArgs[6]).To(BeNil())
		})
	})
})

package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/http/handler"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
)

var _ = Describe("ShiftHandler", func() {
	var (
		router *gin.Engine
		svc    *mockShiftService
		start  time.Time
	)

	BeforeEach(func() {
		svc = &mockShiftService{}
		router = newTestRouter(&testAgent)
		h := handler.NewShiftHandler(svc)
		router.POST("/agent/shift/start", h.Start)
		router.POST("/agent/shift/pause", h.Pause)
		router.POST("/agent/shift/resume", h.Resume)
		router.POST("/agent/shift/end", h.End)
		router.GET("/agent/status", h.Status)
		router.GET("/agent/shifts", h.History)

		start = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	})

	It("returns 201 for a started shift", func() {
		svc.startFn = func(_ context.Context, caller model.Caller) (*model.AgentShift, error) {
			return &model.AgentShift{ID: 100, TenantID: caller.TenantID, AgentID: caller.AgentID, StartedAt: start}, nil
		}

		w := doJSON(router, http.MethodPost, "/agent/shift/start", nil)

		Expect(w.Code).To(Equal(http.StatusCreated))
		resp := decodeBody(w)
		Expect(resp["id"]).To(Equal("100"))
		Expect(resp["agent_id"]).To(Equal("7"))
	})

	It("returns 409 when a shift is already active", func() {
		svc.startFn = func(context.Context, model.Caller) (*model.AgentShift, error) {
			return nil, domain.ErrShiftAlreadyActive
		}

		w := doJSON(router, http.MethodPost, "/agent/shift/start", nil)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decodeBody(w)["error"]).To(Equal("shift_already_active"))
	})

	Describe("Pause", func() {
		It("returns the pause and the released conversations", func() {
			var got service.PauseShiftParams
			svc.pauseFn = func(_ context.Context, _ model.Caller, params service.PauseShiftParams) (*service.PauseResult, error) {
				got = params
				return &service.PauseResult{
					Pause:    &model.AgentPause{ID: 200, ShiftID: 100, Reason: model.PauseReasonMeal, StartedAt: start},
					Released: []int64{10, 11},
				}, nil
			}

			w := doJSON(router, http.MethodPost, "/agent/shift/pause", map[string]any{"reason": "meal"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got.Reason).To(Equal("meal"))
			Expect(got.Detail).To(BeNil())
			resp := decodeBody(w)
			Expect(resp["released_conversation_ids"]).To(Equal([]any{"10", "11"}))
			Expect(resp["pause"].(map[string]any)["reason"]).To(Equal("meal"))
		})

		It("renders an empty release list as an array", func() {
			svc.pauseFn = func(context.Context, model.Caller, service.PauseShiftParams) (*service.PauseResult, error) {
				return &service.PauseResult{Pause: &model.AgentPause{ID: 200, Reason: model.PauseReasonCoffee}}, nil
			}

			w := doJSON(router, http.MethodPost, "/agent/shift/pause", map[string]any{"reason": "coffee"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"released_conversation_ids":[]`))
		})

		It("requires a reason", func() {
			w := doJSON(router, http.MethodPost, "/agent/shift/pause", map[string]any{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for other without detail", func() {
			svc.pauseFn = func(context.Context, model.Caller, service.PauseShiftParams) (*service.PauseResult, error) {
				return nil, domain.ErrMissingDetail
			}

			w := doJSON(router, http.MethodPost, "/agent/shift/pause", map[string]any{"reason": "other", "detail": "  "})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody(w)["error"]).To(Equal("missing_detail"))
		})
	})

	It("returns 404 when resuming without a pause", func() {
		svc.resumeFn = func(context.Context, model.Caller) (*model.AgentPause, error) {
			return nil, domain.ErrNoActivePause
		}

		w := doJSON(router, http.MethodPost, "/agent/shift/resume", nil)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeBody(w)["error"]).To(Equal("no_active_pause"))
	})

	It("returns the ended shift with its totals", func() {
		ended := start.Add(2 * time.Hour)
		svc.endFn = func(context.Context, model.Caller) (*service.EndShiftResult, error) {
			return &service.EndShiftResult{
				Shift: &model.AgentShift{
					ID: 100, AgentID: 7, StartedAt: start, EndedAt: &ended,
					TotalMinutesWorked: 105, TotalMinutesPaused: 15,
				},
				Released: []int64{12},
			}, nil
		}

		w := doJSON(router, http.MethodPost, "/agent/shift/end", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decodeBody(w)
		shift := resp["shift"].(map[string]any)
		Expect(shift["total_minutes_worked"]).To(BeNumerically("==", 105))
		Expect(shift["total_minutes_paused"]).To(BeNumerically("==", 15))
		Expect(resp["released_conversation_ids"]).To(Equal([]any{"12"}))
	})

	Describe("Status", func() {
		It("reports the caller when no agent_id is given", func() {
			var gotAgent *int64
			svc.statusFn = func(_ context.Context, _ model.Caller, agentID *int64) (*domain.AgentStatus, error) {
				gotAgent = agentID
				return &domain.AgentStatus{}, nil
			}

			w := doJSON(router, http.MethodGet, "/agent/status", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotAgent).To(BeNil())
			resp := decodeBody(w)
			Expect(resp["agent_id"]).To(Equal("7"))
			Expect(resp["has_active_shift"]).To(BeFalse())
			Expect(resp["elapsed_worked_minutes"]).To(BeNumerically("==", 0))
		})

		It("passes agent_id and maps forbidden", func() {
			svc.statusFn = func(_ context.Context, _ model.Caller, agentID *int64) (*domain.AgentStatus, error) {
				Expect(*agentID).To(Equal(int64(8)))
				return nil, domain.ErrForbidden
			}

			w := doJSON(router, http.MethodGet, "/agent/status?agent_id=8", nil)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("rejects a malformed agent_id", func() {
			w := doJSON(router, http.MethodGet, "/agent/status?agent_id=x", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("History", func() {
		It("uses the default limit", func() {
			var gotLimit int32
			svc.historyFn = func(_ context.Context, _ model.Caller, _ *int64, limit int32) ([]model.ShiftWithPauses, error) {
				gotLimit = limit
				return []model.ShiftWithPauses{}, nil
			}

			w := doJSON(router, http.MethodGet, "/agent/shifts", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(20)))
			Expect(w.Body.String()).To(ContainSubstring(`"shifts":[]`))
		})

		It("caps the limit", func() {
			var gotLimit int32
			svc.historyFn = func(_ context.Context, _ model.Caller, _ *int64, limit int32) ([]model.ShiftWithPauses, error) {
				gotLimit = limit
				return nil, nil
			}

			w := doJSON(router, http.MethodGet, "/agent/shifts?limit=5000", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(100)))
		})

		It("rejects a non-positive limit", func() {
			w := doJSON(router, http.MethodGet, "/agent/shifts?limit=0", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("renders shifts with their pauses", func() {
			ended := start.Add(time.Hour)
			pauseEnd := start.Add(20 * time.Minute)
			svc.historyFn = func(context.Context, model.Caller, *int64, int32) ([]model.ShiftWithPauses, error) {
				return []model.ShiftWithPauses{{
					AgentShift: model.AgentShift{ID: 100, AgentID: 7, StartedAt: start, EndedAt: &ended, TotalMinutesWorked: 50, TotalMinutesPaused: 10},
					Pauses: []model.AgentPause{
						{ID: 200, ShiftID: 100, Reason: model.PauseReasonCoffee, StartedAt: start.Add(10 * time.Minute), EndedAt: &pauseEnd, MinutesDuration: 10},
					},
				}}, nil
			}

			w := doJSON(router, http.MethodGet, "/agent/shifts?agent_id=7", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			shifts := decodeBody(w)["shifts"].([]any)
			Expect(shifts).To(HaveLen(1))
			shift := shifts[0].(map[string]any)
			Expect(shift["id"]).To(Equal("100"))
			Expect(shift["pauses"]).To(HaveLen(1))
		})
	})
})

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

var _ = Describe("SlaHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSlaService
		start  time.Time
		timer  model.SlaTimer
	)

	BeforeEach(func() {
		svc = &mockSlaService{}
		router = newTestRouter(&testAgent)
		h := handler.NewSlaHandler(svc)
		router.GET("/conversations/:id/sla", h.Get)
		router.POST("/conversations/:id/sla/pause", h.Pause)
		router.POST("/conversations/:id/sla/resume", h.Resume)

		start = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
		timer = model.SlaTimer{
			ConversationID:          42,
			TenantID:                1,
			ResponseSeconds:         120,
			WarningThresholdPercent: 80,
			StartedAt:               start,
			DueAt:                   start.Add(120 * time.Second),
		}
	})

	viewAt := func(t model.SlaTimer, now time.Time) *service.SlaView {
		eval := domain.EvaluateTimer(t, now)
		return &service.SlaView{Timer: &t, Evaluation: &eval}
	}

	It("renders a breached timer", func() {
		svc.getFn = func(_ context.Context, _ model.Caller, id int64) (*service.SlaView, error) {
			Expect(id).To(Equal(int64(42)))
			return viewAt(timer, start.Add(121*time.Second)), nil
		}

		w := doJSON(router, http.MethodGet, "/conversations/42/sla", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decodeBody(w)
		Expect(resp["conversation_id"]).To(Equal("42"))
		sla := resp["sla"].(map[string]any)
		Expect(sla["state"]).To(Equal("breached"))
		Expect(sla["breached_at"]).NotTo(BeNil())
		Expect(sla["remaining_seconds"]).To(BeNumerically("==", -1))
	})

	It("renders a null sla when there is no timer", func() {
		w := doJSON(router, http.MethodGet, "/conversations/42/sla", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decodeBody(w)
		Expect(resp).To(HaveKey("sla"))
		Expect(resp["sla"]).To(BeNil())
	})

	It("returns a paused timer without remaining time", func() {
		pausedAt := start.Add(30 * time.Second)
		svc.pauseFn = func(context.Context, model.Caller, int64) (*service.SlaView, error) {
			paused := timer
			paused.PausedAt = &pausedAt
			return viewAt(paused, pausedAt), nil
		}

		w := doJSON(router, http.MethodPost, "/conversations/42/sla/pause", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		sla := decodeBody(w)["sla"].(map[string]any)
		Expect(sla["state"]).To(Equal("paused"))
		Expect(sla["remaining_seconds"]).To(BeNil())
	})

	It("returns 409 when pausing a timer that is not running", func() {
		svc.pauseFn = func(context.Context, model.Caller, int64) (*service.SlaView, error) {
			return nil, domain.ErrTimerNotRunning
		}

		w := doJSON(router, http.MethodPost, "/conversations/42/sla/pause", nil)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decodeBody(w)["error"]).To(Equal("timer_not_running"))
	})

	It("returns 404 when resuming without a timer", func() {
		svc.resumeFn = func(context.Context, model.Caller, int64) (*service.SlaView, error) {
			return nil, domain.ErrTimerNotFound
		}

		w := doJSON(router, http.MethodPost, "/conversations/42/sla/resume", nil)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})

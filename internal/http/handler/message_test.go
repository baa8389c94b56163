package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/trace"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/http/handler"
	"supportdesk.app/engine/internal/model"
	"supportdesk.app/engine/internal/service"
)

var _ = Describe("MessageHandler", func() {
	var (
		router *gin.Engine
		svc    *mockMessageService
	)

	BeforeEach(func() {
		svc = &mockMessageService{}
		router = newTestRouter(&testAgent)
		h := handler.NewMessageHandler(svc, "X-Trace-Id")
		router.POST("/messages/inbound", h.Inbound)
		router.POST("/messages/outbound", h.Outbound)
	})

	Describe("Inbound", func() {
		It("records the message with its timestamp", func() {
			at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
			var got service.InboundMessageParams
			svc.inboundFn = func(_ context.Context, params service.InboundMessageParams) (*model.Conversation, error) {
				got = params
				return &model.Conversation{ID: 42, TenantID: params.TenantID, ContactID: params.ContactID, Status: model.ConversationStatusWaiting}, nil
			}

			w := doJSON(router, http.MethodPost, "/messages/inbound", map[string]any{
				"tenant_id":        "1",
				"contact_id":       "500",
				"contact_category": "vip",
				"at":               at.Format(time.RFC3339),
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got.TenantID).To(Equal(int64(1)))
			Expect(got.ContactID).To(Equal(int64(500)))
			Expect(*got.ContactCategory).To(Equal("vip"))
			Expect(got.At.Equal(at)).To(BeTrue())
			Expect(decodeBody(w)["contact_id"]).To(Equal("500"))
		})

		It("leaves the time zero when at is omitted", func() {
			var got service.InboundMessageParams
			svc.inboundFn = func(_ context.Context, params service.InboundMessageParams) (*model.Conversation, error) {
				got = params
				return &model.Conversation{ID: 42}, nil
			}

			w := doJSON(router, http.MethodPost, "/messages/inbound", map[string]any{"tenant_id": "1", "contact_id": "500"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got.At.IsZero()).To(BeTrue())
		})

		It("continues the trace named in the trace header", func() {
			var spanCtx trace.SpanContext
			svc.inboundFn = func(ctx context.Context, _ service.InboundMessageParams) (*model.Conversation, error) {
				spanCtx = trace.SpanContextFromContext(ctx)
				return &model.Conversation{ID: 42}, nil
			}

			req := map[string]any{"tenant_id": "1", "contact_id": "500"}
			traced := newTestRouter(nil)
			h := handler.NewMessageHandler(svc, "X-Trace-Id")
			traced.POST("/messages/inbound", func(c *gin.Context) {
				c.Request.Header.Set("X-Trace-Id", "4bf92f3577b34da6a3ce929d0e0e4736")
				h.Inbound(c)
			})

			w := doJSON(traced, http.MethodPost, "/messages/inbound", req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(spanCtx.TraceID().String()).To(Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
		})

		It("requires contact_id", func() {
			w := doJSON(router, http.MethodPost, "/messages/inbound", map[string]any{"tenant_id": "1"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Outbound", func() {
		It("records the reply for the caller", func() {
			var gotCaller model.Caller
			var gotID int64
			svc.outboundFn = func(_ context.Context, caller model.Caller, id int64, at time.Time) (*model.Conversation, error) {
				gotCaller, gotID = caller, id
				Expect(at.IsZero()).To(BeTrue())
				return inProgress(id, caller.AgentID), nil
			}

			w := doJSON(router, http.MethodPost, "/messages/outbound", map[string]any{"conversation_id": "42"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotCaller.AgentID).To(Equal(int64(7)))
			Expect(gotID).To(Equal(int64(42)))
		})

		It("returns 409 on a closed conversation", func() {
			svc.outboundFn = func(context.Context, model.Caller, int64, time.Time) (*model.Conversation, error) {
				return nil, domain.ErrAlreadyClosed
			}

			w := doJSON(router, http.MethodPost, "/messages/outbound", map[string]any{"conversation_id": "42"})

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeBody(w)["error"]).To(Equal("already_closed"))
		})
	})
})

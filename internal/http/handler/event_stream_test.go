package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/http/handler"
)

var _ = Describe("EventStreamHandler", func() {
	var router *gin.Engine

	stream := func(reader events.Reader, path string) *httptest.ResponseRecorder {
		router = newTestRouter(&testAgent)
		h := handler.NewEventStreamHandler(reader)
		router.GET("/events/stream", h.Stream)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns 503 when live events are disabled", func() {
		w := stream(nil, "/events/stream")
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("relays the caller's tenant events and resumes from the last id", func() {
		conversationID := int64(42)
		var (
			calls   int
			tenants []int64
			lastIDs []string
		)
		reader := &mockEventReader{
			readFn: func(_ context.Context, tenantID int64, lastID string) ([]events.Event, error) {
				calls++
				tenants = append(tenants, tenantID)
				lastIDs = append(lastIDs, lastID)
				switch calls {
				case 1:
					return []events.Event{}, nil
				case 2:
					return []events.Event{{
						ID:             "1700000000000-0",
						Type:           events.TypeConversationClaimed,
						TenantID:       tenantID,
						ConversationID: &conversationID,
						OccurredAt:     time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
					}}, nil
				default:
					return nil, errors.New("stream closed")
				}
			},
		}

		w := stream(reader, "/events/stream")

		Expect(w.Header().Get("Content-Type")).To(Equal("text/event-stream"))
		Expect(tenants).To(Equal([]int64{1, 1, 1}))
		Expect(lastIDs).To(Equal([]string{"$", "$", "1700000000000-0"}))

		body := w.Body.String()
		Expect(body).To(ContainSubstring("event: ping\ndata: ready\n\n"))
		Expect(body).To(ContainSubstring("id: 1700000000000-0\nevent: conversation.claimed\n"))
		Expect(body).To(ContainSubstring(`"conversation_id":42`))
		Expect(body).To(ContainSubstring("event: error\n"))
		Expect(body).NotTo(ContainSubstring("stream closed"))
	})

	It("starts from last_id when given", func() {
		var first string
		reader := &mockEventReader{
			readFn: func(_ context.Context, _ int64, lastID string) ([]events.Event, error) {
				if first == "" {
					first = lastID
				}
				return nil, errors.New("done")
			},
		}

		stream(reader, "/events/stream?last_id=1699999999999-3")

		Expect(first).To(Equal("1699999999999-3"))
	})

	It("stops when the client goes away", func() {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &mockEventReader{
			readFn: func(context.Context, int64, string) ([]events.Event, error) {
				cancel()
				return nil, context.Canceled
			},
		}

		router = newTestRouter(&testAgent)
		router.GET("/events/stream", handler.NewEventStreamHandler(reader).Stream)
		req := httptest.NewRequest(http.MethodGet, "/events/stream", nil).WithContext(ctx)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Body.String()).NotTo(ContainSubstring("event: error"))
	})
})

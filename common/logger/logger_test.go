package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/common/logger"
)

var _ = Describe("TraceHandler", func() {
	var (
		buf *bytes.Buffer
		log *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		log = slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil)))
	})

	decode := func() map[string]any {
		var out map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &out)).To(Succeed())
		return out
	}

	It("adds context log fields to every record", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			TenantID:  logger.Ptr(int64(7)),
			AgentID:   logger.Ptr(int64(42)),
			Component: "engine.service.queue",
		})

		log.InfoContext(ctx, "claimed")

		out := decode()
		Expect(out["tenant_id"]).To(BeNumerically("==", 7))
		Expect(out["agent_id"]).To(BeNumerically("==", 42))
		Expect(out["component"]).To(Equal("engine.service.queue"))
		Expect(out).NotTo(HaveKey("conversation_id"))
	})

	It("merges later fields over earlier ones", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			AgentID:   logger.Ptr(int64(1)),
			Operation: logger.Ptr("claim"),
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			AgentID:        logger.Ptr(int64(2)),
			ConversationID: logger.Ptr(int64(99)),
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.AgentID).To(Equal(int64(2)))
		Expect(*fields.Operation).To(Equal("claim"))
		Expect(*fields.ConversationID).To(Equal(int64(99)))
	})

	It("omits trace ids without an active span", func() {
		log.InfoContext(context.Background(), "no span")

		Expect(decode()).NotTo(HaveKey("trace_id"))
	})
})

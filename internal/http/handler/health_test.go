package handler_test

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/http/handler"
)

var _ = Describe("HealthHandler", func() {
	It("reports ok when the database answers", func() {
		router := newTestRouter(nil)
		router.GET("/health", handler.NewHealthHandler(&mockPinger{}).Check)

		w := doJSON(router, http.MethodGet, "/health", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeBody(w)["database"]).To(Equal("up"))
	})

	It("reports unavailable when the ping fails", func() {
		router := newTestRouter(nil)
		router.GET("/health", handler.NewHealthHandler(&mockPinger{err: errors.New("refused")}).Check)

		w := doJSON(router, http.MethodGet, "/health", nil)

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(decodeBody(w)["status"]).To(Equal("unavailable"))
	})
})

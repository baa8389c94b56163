package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

var _ = Describe("ResolvePolicy", func() {
	fallback := domain.ResolvedPolicy{ResponseSeconds: 300, WarningThresholdPercent: 80}

	policies := []model.SlaPolicy{
		{ID: 1, ResponseSeconds: 600, WarningThresholdPercent: 80},
		{ID: 2, ContactCategory: strPtr("vip"), ResponseSeconds: 60, WarningThresholdPercent: 50},
		{ID: 3, StageID: int64Ptr(10), ResponseSeconds: 120, WarningThresholdPercent: 75},
		{ID: 4, StageID: int64Ptr(10), ContactCategory: strPtr("vip"), ResponseSeconds: 30, WarningThresholdPercent: 90},
	}

	DescribeTable("picks the most specific match",
		func(stage *int64, category *string, wantID int64, wantSeconds int32) {
			got := domain.ResolvePolicy(policies, stage, category, fallback)
			Expect(got.PolicyID).NotTo(BeNil())
			Expect(*got.PolicyID).To(Equal(wantID))
			Expect(got.ResponseSeconds).To(Equal(wantSeconds))
		},
		Entry("stage and category", int64Ptr(10), strPtr("vip"), int64(4), int32(30)),
		Entry("stage only", int64Ptr(10), strPtr("regular"), int64(3), int32(120)),
		Entry("category only", int64Ptr(11), strPtr("vip"), int64(2), int32(60)),
		Entry("tenant default", int64Ptr(11), nil, int64(1), int32(600)),
		Entry("no scope at all", nil, nil, int64(1), int32(600)),
	)

	It("falls back to configuration when nothing matches", func() {
		got := domain.ResolvePolicy(policies[1:3], int64Ptr(99), strPtr("regular"), fallback)
		Expect(got).To(Equal(fallback))
		Expect(got.PolicyID).To(BeNil())
	})

	It("falls back with no policies", func() {
		Expect(domain.ResolvePolicy(nil, nil, nil, fallback)).To(Equal(fallback))
	})
})

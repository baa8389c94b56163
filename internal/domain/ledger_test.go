package domain_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
)

var _ = Describe("Ledger arithmetic", func() {
	t0 := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	It("truncates minutes instead of rounding", func() {
		Expect(domain.MinutesBetween(t0, t0.Add(59*time.Second))).To(Equal(int32(0)))
		Expect(domain.MinutesBetween(t0, t0.Add(119*time.Second))).To(Equal(int32(1)))
		Expect(domain.MinutesBetween(t0, t0.Add(5*time.Minute+59*time.Second))).To(Equal(int32(5)))
	})

	It("never goes negative", func() {
		Expect(domain.MinutesBetween(t0, t0.Add(-time.Hour))).To(Equal(int32(0)))
	})

	It("finalizes a shift with one pause", func() {
		shift := model.AgentShift{StartedAt: t0}
		pauses := []model.AgentPause{{MinutesDuration: 5}}

		totals := domain.FinalizeShift(shift, pauses, t0.Add(60*time.Minute))
		Expect(totals.Paused).To(Equal(int32(5)))
		Expect(totals.Worked).To(Equal(int32(55)))
	})

	It("clamps worked minutes at zero", func() {
		shift := model.AgentShift{StartedAt: t0}
		pauses := []model.AgentPause{{MinutesDuration: 30}}

		totals := domain.FinalizeShift(shift, pauses, t0.Add(10*time.Minute))
		Expect(totals.Worked).To(Equal(int32(0)))
		Expect(totals.Paused).To(Equal(int32(30)))
	})

	Describe("ProjectStatus", func() {
		It("is empty without a shift", func() {
			status := domain.ProjectStatus(nil, nil, t0)
			Expect(status.HasActiveShift).To(BeFalse())
			Expect(status.IsPaused).To(BeFalse())
		})

		It("subtracts closed and open pause time", func() {
			shift := &model.AgentShift{StartedAt: t0, TotalMinutesPaused: 5}
			pause := &model.AgentPause{StartedAt: t0.Add(30 * time.Minute)}

			status := domain.ProjectStatus(shift, pause, t0.Add(42*time.Minute+30*time.Second))
			Expect(status.HasActiveShift).To(BeTrue())
			Expect(status.IsPaused).To(BeTrue())
			Expect(status.ElapsedPausedMinutes).To(Equal(int32(17)))
			Expect(status.ElapsedWorkedMinutes).To(Equal(int32(25)))
		})
	})
})

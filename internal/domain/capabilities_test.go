package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
)

var _ = Describe("CapabilitiesFor", func() {
	It("grants the shift override only to admins", func() {
		admin := domain.CapabilitiesFor([]model.Role{model.RoleAdmin}, false)
		coordinator := domain.CapabilitiesFor([]model.Role{model.RoleCoordinator}, false)

		Expect(admin.Has(model.CapabilityAssignWithoutShift)).To(BeTrue())
		Expect(coordinator.Has(model.CapabilityAssignWithoutShift)).To(BeFalse())
		Expect(coordinator.Has(model.CapabilityTransferAny)).To(BeTrue())
	})

	It("gives plain agents nothing unless self transfer is allowed", func() {
		Expect(domain.CapabilitiesFor([]model.Role{model.RoleAgent}, false)).To(BeEmpty())
		Expect(domain.CapabilitiesFor([]model.Role{model.RoleAgent}, true)).To(ConsistOf(model.CapabilityTransferOwn))
	})

	It("deduplicates across roles", func() {
		caps := domain.CapabilitiesFor([]model.Role{model.RoleAdmin, model.RoleCoordinator}, false)
		Expect(caps).To(HaveLen(5))
	})
})

var _ = Describe("Error", func() {
	It("matches sentinels by kind and code after WithMessage", func() {
		err := domain.ErrAlreadyClaimed.WithMessage("conversation 5")
		Expect(err).To(MatchError(domain.ErrAlreadyClaimed))
		Expect(err.Error()).To(Equal("already_claimed: conversation 5"))
	})

	It("distinguishes equal codes of different kinds", func() {
		Expect(domain.ErrAgentOffShift).NotTo(MatchError(domain.ErrNoActiveShift))
	})

	It("reports no kind for foreign errors", func() {
		Expect(domain.KindOf(nil)).To(BeEmpty())
	})
})

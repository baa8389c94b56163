package domain

import "supportdesk.app/engine/internal/model"

var roleCapabilities = map[model.Role][]model.Capability{
	model.RoleAdmin: {
		model.CapabilityTransferAny,
		model.CapabilityUnclaimAny,
		model.CapabilityAssignWithoutShift,
		model.CapabilityViewAllShifts,
		model.CapabilityManageSLA,
	},
	model.RoleCoordinator: {
		model.CapabilityTransferAny,
		model.CapabilityUnclaimAny,
		model.CapabilityViewAllShifts,
		model.CapabilityManageSLA,
	},
	model.RoleAgent: {},
}

// CapabilitiesFor resolves roles into the capability set carried by a
// Caller. Unknown roles grant nothing.
func CapabilitiesFor(roles []model.Role, allowSelfTransfer bool) model.Capabilities {
	caps := model.Capabilities{}
	add := func(c model.Capability) {
		if !caps.Has(c) {
			caps = append(caps, c)
		}
	}

	for _, role := range roles {
		for _, c := range roleCapabilities[role] {
			add(c)
		}
	}
	if allowSelfTransfer {
		add(model.CapabilityTransferOwn)
	}
	return caps
}

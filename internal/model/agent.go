package model

import (
	"slices"
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleAgent       Role = "agent"
)

// Capability is a permission resolved once per request from the caller's roles.
type Capability string

const (
	CapabilityTransferAny        Capability = "transfer_any"
	CapabilityTransferOwn        Capability = "transfer_own"
	CapabilityUnclaimAny         Capability = "unclaim_any"
	CapabilityAssignWithoutShift Capability = "assign_without_shift"
	CapabilityViewAllShifts      Capability = "view_all_shifts"
	CapabilityManageSLA          Capability = "manage_sla"
)

type Capabilities []Capability

func (c Capabilities) Has(capability Capability) bool {
	return slices.Contains(c, capability)
}

type Agent struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Caller is the authenticated identity every facade operation receives
// explicitly. The core never looks identity up on its own.
type Caller struct {
	AgentID      int64        `json:"agent_id"`
	TenantID     int64        `json:"tenant_id"`
	Roles        []Role       `json:"roles"`
	Capabilities Capabilities `json:"capabilities"`
}

func (c Caller) Can(capability Capability) bool {
	return c.Capabilities.Has(capability)
}

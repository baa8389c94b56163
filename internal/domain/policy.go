package domain

import "supportdesk.app/engine/internal/model"

// ResolvedPolicy is the deadline configuration applied to a new timer cycle.
// PolicyID is nil when the configured fallback was used.
type ResolvedPolicy struct {
	PolicyID                *int64
	ResponseSeconds         int32
	WarningThresholdPercent int32
}

// ResolvePolicy picks the most specific tenant policy for a stage and
// contact category: (stage, category), then (stage, any), then
// (any, category), then the tenant default (any, any). With no match the
// fallback applies.
func ResolvePolicy(policies []model.SlaPolicy, stageID *int64, category *string, fallback ResolvedPolicy) ResolvedPolicy {
	best := -1
	var chosen *model.SlaPolicy

	for i := range policies {
		p := &policies[i]
		rank := policyRank(p, stageID, category)
		if rank < 0 {
			continue
		}
		if chosen == nil || rank < best {
			best = rank
			chosen = p
		}
	}

	if chosen == nil {
		return fallback
	}

	id := chosen.ID
	return ResolvedPolicy{
		PolicyID:                &id,
		ResponseSeconds:         chosen.ResponseSeconds,
		WarningThresholdPercent: chosen.WarningThresholdPercent,
	}
}

// policyRank returns 0 for the most specific match, 3 for the tenant
// default and -1 when the policy does not apply.
func policyRank(p *model.SlaPolicy, stageID *int64, category *string) int {
	stageMatch := p.StageID != nil && stageID != nil && *p.StageID == *stageID
	categoryMatch := p.ContactCategory != nil && category != nil && *p.ContactCategory == *category

	switch {
	case p.StageID != nil && p.ContactCategory != nil:
		if stageMatch && categoryMatch {
			return 0
		}
	case p.StageID != nil:
		if stageMatch {
			return 1
		}
	case p.ContactCategory != nil:
		if categoryMatch {
			return 2
		}
	default:
		return 3
	}
	return -1
}

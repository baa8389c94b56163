package domain

import (
	"fmt"
	"strings"

	"supportdesk.app/engine/internal/model"
)

// PauseReason is a closed variant: meal, coffee, restroom, or other with a
// non-empty detail. The zero value is not valid; build one with
// ParsePauseReason.
type PauseReason struct {
	kind   model.PauseReasonKind
	detail string
}

func ParsePauseReason(kind string, detail *string) (PauseReason, error) {
	k := model.PauseReasonKind(strings.ToLower(strings.TrimSpace(kind)))
	if !k.IsValid() {
		return PauseReason{}, ErrInvalidReason.WithMessage(fmt.Sprintf("unknown pause reason %q", kind))
	}

	if k != model.PauseReasonOther {
		return PauseReason{kind: k}, nil
	}

	if detail == nil || strings.TrimSpace(*detail) == "" {
		return PauseReason{}, ErrMissingDetail
	}
	return PauseReason{kind: k, detail: strings.TrimSpace(*detail)}, nil
}

func (r PauseReason) Kind() model.PauseReasonKind {
	return r.kind
}

// Detail is non-nil only for the "other" variant.
func (r PauseReason) Detail() *string {
	if r.kind != model.PauseReasonOther {
		return nil
	}
	d := r.detail
	return &d
}

func (r PauseReason) IsZero() bool {
	return r.kind == ""
}

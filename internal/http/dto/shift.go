package dto

import (
	"time"

	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/model"
)

type PauseShiftRequest struct {
	Reason string  `json:"reason" binding:"required"`
	Detail *string `json:"detail,omitempty" binding:"omitempty,max=500"`
}

type ShiftResponse struct {
	ID                 int64      `json:"id,string"`
	AgentID            int64      `json:"agent_id,string"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	TotalMinutesWorked int32      `json:"total_minutes_worked"`
	TotalMinutesPaused int32      `json:"total_minutes_paused"`
}

func ToShiftResponse(s *model.AgentShift) *ShiftResponse {
	if s == nil {
		return nil
	}
	return &ShiftResponse{
		ID:                 s.ID,
		AgentID:            s.AgentID,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		TotalMinutesWorked: s.TotalMinutesWorked,
		TotalMinutesPaused: s.TotalMinutesPaused,
	}
}

type PauseResponse struct {
	ID              int64      `json:"id,string"`
	ShiftID         int64      `json:"shift_id,string"`
	Reason          string     `json:"reason"`
	Detail          *string    `json:"detail,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	MinutesDuration int32      `json:"minutes_duration"`
}

func ToPauseResponse(p *model.AgentPause) *PauseResponse {
	if p == nil {
		return nil
	}
	return &PauseResponse{
		ID:              p.ID,
		ShiftID:         p.ShiftID,
		Reason:          string(p.Reason),
		Detail:          p.ReasonDetail,
		StartedAt:       p.StartedAt,
		EndedAt:         p.EndedAt,
		MinutesDuration: p.MinutesDuration,
	}
}

// ReleasedResponse lists the conversations a pause or end returned to the
// queue. IDs are strings like every other identifier in responses.
type ReleasedResponse []string

func toReleased(ids []int64) ReleasedResponse {
	out := make(ReleasedResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, formatID(id))
	}
	return out
}

type PauseShiftResponse struct {
	Pause    *PauseResponse   `json:"pause"`
	Released ReleasedResponse `json:"released_conversation_ids"`
}

func ToPauseShiftResponse(pause *model.AgentPause, released []int64) *PauseShiftResponse {
	return &PauseShiftResponse{Pause: ToPauseResponse(pause), Released: toReleased(released)}
}

type EndShiftResponse struct {
	Shift    *ShiftResponse   `json:"shift"`
	Released ReleasedResponse `json:"released_conversation_ids"`
}

func ToEndShiftResponse(shift *model.AgentShift, released []int64) *EndShiftResponse {
	return &EndShiftResponse{Shift: ToShiftResponse(shift), Released: toReleased(released)}
}

type AgentStatusResponse struct {
	AgentID              int64          `json:"agent_id,string"`
	HasActiveShift       bool           `json:"has_active_shift"`
	IsPaused             bool           `json:"is_paused"`
	Shift                *ShiftResponse `json:"shift,omitempty"`
	Pause                *PauseResponse `json:"pause,omitempty"`
	ElapsedWorkedMinutes int32          `json:"elapsed_worked_minutes"`
	ElapsedPausedMinutes int32          `json:"elapsed_paused_minutes"`
}

func ToAgentStatusResponse(agentID int64, s *domain.AgentStatus) *AgentStatusResponse {
	return &AgentStatusResponse{
		AgentID:              agentID,
		HasActiveShift:       s.HasActiveShift,
		IsPaused:             s.IsPaused,
		Shift:                ToShiftResponse(s.Shift),
		Pause:                ToPauseResponse(s.Pause),
		ElapsedWorkedMinutes: s.ElapsedWorkedMinutes,
		ElapsedPausedMinutes: s.ElapsedPausedMinutes,
	}
}

type ShiftHistoryEntry struct {
	ShiftResponse
	Pauses []PauseResponse `json:"pauses"`
}

type ShiftHistoryResponse struct {
	AgentID int64               `json:"agent_id,string"`
	Shifts  []ShiftHistoryEntry `json:"shifts"`
}

func ToShiftHistoryResponse(agentID int64, history []model.ShiftWithPauses) *ShiftHistoryResponse {
	shifts := make([]ShiftHistoryEntry, 0, len(history))
	for i := range history {
		h := &history[i]
		pauses := make([]PauseResponse, 0, len(h.Pauses))
		for j := range h.Pauses {
			pauses = append(pauses, *ToPauseResponse(&h.Pauses[j]))
		}
		shifts = append(shifts, ShiftHistoryEntry{
			ShiftResponse: *ToShiftResponse(&h.AgentShift),
			Pauses:        pauses,
		})
	}
	return &ShiftHistoryResponse{AgentID: agentID, Shifts: shifts}
}

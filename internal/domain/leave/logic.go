package leave

import (
	"errors"
	"time"
)

// CalculateDays returns the inclusive calendar day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var stageRank = map[string]int{
	StatusLineManagerApproval: 0,
	StatusHeadOfUnitApproval:  1,
	StatusHRApproval:          2,
	StatusApproved:            3,
}

func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

func ValidStatus(status string) bool {
	_, ok := stageRank[status]
	return ok || status == StatusRejected
}

// NextStatus is the status a stage approver advances the request to. The head
// of unit stage is skipped when the snapshot has no head of unit.
func NextStatus(r Request) string {
	switch r.Status {
	case StatusLineManagerApproval:
		if r.HeadOfUnitID == "" {
			return StatusHRApproval
		}
		return StatusHeadOfUnitApproval
	case StatusHeadOfUnitApproval:
		return StatusHRApproval
	case StatusHRApproval:
		return StatusApproved
	}
	return ""
}

// IsForward reports whether moving from one status to another never goes
// backwards. Rejection is forward from any non-terminal status.
func IsForward(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StatusRejected {
		return true
	}
	fromRank, okFrom := stageRank[from]
	toRank, okTo := stageRank[to]
	return okFrom && okTo && toRank > fromRank
}

package leave

import "time"

const (
	StatusLineManagerApproval = "line_manager_approval"
	StatusHeadOfUnitApproval  = "head_of_unit_approval"
	StatusHRApproval          = "hr_approval"
	StatusApproved            = "approved"
	StatusRejected            = "rejected"
)

var Types = []string{"annual", "sick", "vacation", "personal", "maternity", "paternity", "bereavement", "other"}

// ApprovalChain is captured once when the request is submitted, walking the
// employee's manager chain two levels up. Later org changes never touch it.
type ApprovalChain struct {
	LineManagerID   string    `json:"lineManagerId,omitempty"`
	LineManagerName string    `json:"lineManagerName,omitempty"`
	HeadOfUnitID    string    `json:"headOfUnitId,omitempty"`
	HeadOfUnitName  string    `json:"headOfUnitName,omitempty"`
	CapturedAt      time.Time `json:"capturedAt"`
}

type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Comment    string    `json:"comment"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Request struct {
	ID                    string        `json:"id"`
	EmployeeID            string        `json:"employeeId"`
	EmployeeName          string        `json:"employeeName"`
	Type                  string        `json:"type"`
	StartDate             string        `json:"startDate"`
	EndDate               string        `json:"endDate"`
	Days                  int           `json:"days"`
	Reason                string        `json:"reason"`
	HandoverTo            string        `json:"handoverTo,omitempty"`
	HandoverNotes         string        `json:"handoverNotes,omitempty"`
	Status                string        `json:"status"`
	ApprovalChain         ApprovalChain `json:"approvalChain"`
	LineManagerID         string        `json:"lineManagerId,omitempty"`
	LineManagerName       string        `json:"lineManagerName,omitempty"`
	HeadOfUnitID          string        `json:"headOfUnitId,omitempty"`
	HeadOfUnitName        string        `json:"headOfUnitName,omitempty"`
	LineManagerApprovedAt *time.Time    `json:"lineManagerApprovedAt,omitempty"`
	HeadOfUnitApprovedAt  *time.Time    `json:"headOfUnitApprovedAt,omitempty"`
	HRApprovedBy          string        `json:"hrApprovedBy,omitempty"`
	HRApprovedAt          *time.Time    `json:"hrApprovedAt,omitempty"`
	ApprovedAt            *time.Time    `json:"approvedAt,omitempty"`
	RejectedBy            string        `json:"rejectedBy,omitempty"`
	RejectedAt            *time.Time    `json:"rejectedAt,omitempty"`
	RejectionReason       string        `json:"rejectionReason,omitempty"`
	Comments              []Comment     `json:"comments"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Untouched reports whether no approver has acted yet.
func (r Request) Untouched() bool {
	return !IsTerminal(r.Status) &&
		r.LineManagerApprovedAt == nil &&
		r.HeadOfUnitApprovedAt == nil &&
		r.HRApprovedAt == nil
}

type CreateInput struct {
	Type          string `json:"type" validate:"required,oneof=annual sick vacation personal maternity paternity bereavement other"`
	StartDate     string `json:"startDate" validate:"required"`
	EndDate       string `json:"endDate" validate:"required"`
	Reason        string `json:"reason" validate:"max=2000"`
	HandoverTo    string `json:"handoverTo" validate:"max=200"`
	HandoverNotes string `json:"handoverNotes" validate:"max=2000"`
}

// UpdateInput is the whole set of fields a caller may send on update. Stage
// approvers may move the status and comment; only admins may edit the
// request details.
type UpdateInput struct {
	Status          *string `json:"status" validate:"omitempty,oneof=line_manager_approval head_of_unit_approval hr_approval approved rejected"`
	Comment         *string `json:"comment" validate:"omitempty,max=2000"`
	IsInternal      bool    `json:"isInternal"`
	RejectionReason *string `json:"rejectionReason" validate:"omitempty,max=2000"`
	Type            *string `json:"type" validate:"omitempty,oneof=annual sick vacation personal maternity paternity bereavement other"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
	Reason          *string `json:"reason" validate:"omitempty,max=2000"`
}

func (in UpdateInput) touchesDetails() bool {
	return in.Type != nil || in.StartDate != nil || in.EndDate != nil || in.Reason != nil
}

func (in UpdateInput) empty() bool {
	return in.Status == nil && in.Comment == nil && in.RejectionReason == nil && !in.touchesDetails()
}

type ListFilter struct {
	Status     string
	EmployeeID string
}

package appraisals

import "time"

const (
	StatusDraft          = "draft"
	StatusSelfAssessment = "self_assessment"
	StatusManagerReview  = "manager_review"
	StatusHRReview       = "hr_review"
	StatusCompleted      = "completed"
)

var statusOrder = []string{StatusDraft, StatusSelfAssessment, StatusManagerReview, StatusHRReview, StatusCompleted}

type Criterion struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
	MaxScore    float64 `json:"maxScore"`
}

type Response struct {
	CriteriaID     string   `json:"criteriaId"`
	SelfScore      *float64 `json:"selfScore,omitempty"`
	SelfComment    string   `json:"selfComment,omitempty"`
	ManagerScore   *float64 `json:"managerScore,omitempty"`
	ManagerComment string   `json:"managerComment,omitempty"`
	FinalScore     *float64 `json:"finalScore,omitempty"`
}

type Appraisal struct {
	ID              string      `json:"id"`
	EmployeeID      string      `json:"employeeId"`
	EmployeeName    string      `json:"employeeName"`
	ManagerID       string      `json:"managerId,omitempty"`
	ManagerName     string      `json:"managerName,omitempty"`
	Cycle           string      `json:"cycle"`
	Period          string      `json:"period"`
	Status          string      `json:"status"`
	Criteria        []Criterion `json:"criteria"`
	Responses       []Response  `json:"responses"`
	OverallScore    float64     `json:"overallScore"`
	OverallComment  string      `json:"overallComment"`
	EmployeeComment string      `json:"employeeComment"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
}

type CriterionInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	MaxScore    float64 `json:"maxScore" validate:"gte=0"`
}

type CreateInput struct {
	EmployeeID string           `json:"employeeId" validate:"required"`
	ManagerID  string           `json:"managerId"`
	Cycle      string           `json:"cycle" validate:"required,max=80"`
	Period     string           `json:"period" validate:"max=80"`
	Criteria   []CriterionInput `json:"criteria" validate:"dive"`
}

type ResponsePatch struct {
	CriteriaID     string   `json:"criteriaId" validate:"required"`
	SelfScore      *float64 `json:"selfScore"`
	SelfComment    *string  `json:"selfComment" validate:"omitempty,max=2000"`
	ManagerScore   *float64 `json:"managerScore"`
	ManagerComment *string  `json:"managerComment" validate:"omitempty,max=2000"`
	FinalScore     *float64 `json:"finalScore"`
}

// Patch is the full set of fields a caller may send. Which of them a caller
// may actually set depends on their relation to the appraisal.
type Patch struct {
	Status          *string          `json:"status" validate:"omitempty,oneof=draft self_assessment manager_review hr_review completed"`
	Responses       []ResponsePatch  `json:"responses" validate:"dive"`
	OverallScore    *float64         `json:"overallScore" validate:"omitempty,gte=0"`
	OverallComment  *string          `json:"overallComment" validate:"omitempty,max=4000"`
	EmployeeComment *string          `json:"employeeComment" validate:"omitempty,max=4000"`
	Cycle           *string          `json:"cycle" validate:"omitempty,min=1,max=80"`
	Period          *string          `json:"period" validate:"omitempty,max=80"`
	Criteria        []CriterionInput `json:"criteria" validate:"omitempty,dive"`
}

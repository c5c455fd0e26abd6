package notifications

const (
	TypeLeaveSubmitted   = "leave_submitted"
	TypeLeaveAdvanced    = "leave_awaiting_approval"
	TypeLeaveApproved    = "leave_approved"
	TypeLeaveRejected    = "leave_rejected"
	TypeDocumentApproved = "document_approved"
	TypeDocumentRejected = "document_rejected"
	TypeDocumentExpiring = "document_expiring"
	TypeAppraisalUpdated = "appraisal_updated"
	TypeOnboarding       = "onboarding"
)

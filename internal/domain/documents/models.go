package documents

import (
	"io"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ActionUploaded   = "uploaded"
	ActionApproved   = "approved"
	ActionRejected   = "rejected"
	ActionDownloaded = "downloaded"
	ActionDeleted    = "deleted"
)

const (
	RelatedLeaveRequest   = "leave_request"
	RelatedAllowanceClaim = "allowance_claim"
)

type Document struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	EmployeeName      string     `json:"employeeName"`
	Type              string     `json:"type"`
	FileName          string     `json:"fileName"`
	OriginalFileName  string     `json:"originalFileName"`
	FileSize          int64      `json:"fileSize"`
	FileType          string     `json:"fileType"`
	FilePath          string     `json:"filePath"`
	Status            string     `json:"status"`
	Message           string     `json:"message,omitempty"`
	UploadedAt        time.Time  `json:"uploadedAt"`
	ApprovedBy        string     `json:"approvedBy,omitempty"`
	ApproverName      string     `json:"approverName,omitempty"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	RejectedBy        string     `json:"rejectedBy,omitempty"`
	RejectorName      string     `json:"rejectorName,omitempty"`
	RejectedAt        *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason   string     `json:"rejectionReason,omitempty"`
	IsRequired        bool       `json:"isRequired"`
	ExpiryDate        string     `json:"expiryDate,omitempty"`
	RelatedEntityID   string     `json:"relatedEntityId,omitempty"`
	RelatedEntityType string     `json:"relatedEntityType,omitempty"`
}

// AuditEntry is one line of a document's append-only history. Entries
// outlive the document they describe.
type AuditEntry struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"documentId"`
	Action        string    `json:"action"`
	PerformedBy   string    `json:"performedBy"`
	PerformerName string    `json:"performerName"`
	Timestamp     time.Time `json:"timestamp"`
	Details       string    `json:"details,omitempty"`
	IPAddress     string    `json:"ipAddress,omitempty"`
}

type UploadInput struct {
	Type              string
	Message           string
	ExpiryDate        string
	RelatedEntityID   string
	RelatedEntityType string
	// EmployeeID is honoured only for HR and admins uploading on someone
	// else's behalf.
	EmployeeID string

	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type ReviewInput struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejectionReason" validate:"max=2000"`
}

type Filter struct {
	Status     string
	Type       string
	EmployeeID string
	IsRequired *bool
	ExpiryFrom string
	ExpiryTo   string
}

// Match reports whether doc passes every set criterion. Expiry bounds exclude
// documents without an expiry date.
func (f Filter) Match(doc Document) bool {
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.Type != "" && doc.Type != f.Type {
		return false
	}
	if f.EmployeeID != "" && doc.EmployeeID != f.EmployeeID {
		return false
	}
	if f.IsRequired != nil && doc.IsRequired != *f.IsRequired {
		return false
	}
	if f.ExpiryFrom != "" || f.ExpiryTo != "" {
		if doc.ExpiryDate == "" {
			return false
		}
		if f.ExpiryFrom != "" && doc.ExpiryDate < f.ExpiryFrom {
			return false
		}
		if f.ExpiryTo != "" && doc.ExpiryDate > f.ExpiryTo {
			return false
		}
	}
	return true
}

type Compliance struct {
	EmployeeID string   `json:"employeeId"`
	Compliant  bool     `json:"compliant"`
	Required   []string `json:"required"`
	Approved   []string `json:"approved"`
	Missing    []string `json:"missing"`
	Progress   int      `json:"progress"`
}

type Stats struct {
	TotalDocuments  int `json:"totalDocuments"`
	PendingApproval int `json:"pendingApproval"`
	Approved        int `json:"approved"`
	Rejected        int `json:"rejected"`
	ExpiringSoon    int `json:"expiringSoon"`
	MissingRequired int `json:"missingRequired"`
}

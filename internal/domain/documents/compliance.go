package documents

import (
	"context"
	"fmt"
	"log/slog"

	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
)

// Compliance reports which required document types the employee still lacks
// an approved copy of. It scans every document on each call.
func (s *Service) Compliance(ctx context.Context, actor auth.Identity, employeeID string) (Compliance, error) {
	if !canAccess(actor, employeeID) {
		return Compliance{}, ErrNotVisible
	}
	if _, err := s.Directory.Get(ctx, employeeID); err != nil {
		return Compliance{}, err
	}
	docs, err := s.Store.List(ctx, Filter{EmployeeID: employeeID, Status: StatusApproved})
	if err != nil {
		return Compliance{}, err
	}
	return compliance(employeeID, docs), nil
}

func compliance(employeeID string, approvedDocs []Document) Compliance {
	have := make(map[string]bool, len(approvedDocs))
	for _, doc := range approvedDocs {
		if doc.EmployeeID == employeeID && doc.Status == StatusApproved {
			have[doc.Type] = true
		}
	}
	out := Compliance{EmployeeID: employeeID, Required: []string{}, Approved: []string{}, Missing: []string{}}
	for _, info := range RequiredTypes() {
		out.Required = append(out.Required, info.Type)
		if have[info.Type] {
			out.Approved = append(out.Approved, info.Type)
		} else {
			out.Missing = append(out.Missing, info.Type)
		}
	}
	out.Compliant = len(out.Missing) == 0
	if len(out.Required) == 0 {
		out.Progress = 100
	} else {
		out.Progress = len(out.Approved) * 100 / len(out.Required)
	}
	return out
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	docs, err := s.Store.List(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}
	people, err := s.Directory.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	from, to := s.expiryWindow(ctx)

	var stats Stats
	approvedByOwner := make(map[string][]Document)
	for _, doc := range docs {
		stats.TotalDocuments++
		switch doc.Status {
		case StatusPending:
			stats.PendingApproval++
		case StatusApproved:
			stats.Approved++
			approvedByOwner[doc.EmployeeID] = append(approvedByOwner[doc.EmployeeID], doc)
		case StatusRejected:
			stats.Rejected++
		}
		if doc.Status != StatusRejected && doc.ExpiryDate != "" && doc.ExpiryDate >= from && doc.ExpiryDate <= to {
			stats.ExpiringSoon++
		}
	}
	for _, person := range people {
		if !person.Active() {
			continue
		}
		if !compliance(person.ID, approvedByOwner[person.ID]).Compliant {
			stats.MissingRequired++
		}
	}
	return stats, nil
}

// NotifyExpiring tells owners about approved documents that expire inside the
// configured window and returns how many notifications were sent.
func (s *Service) NotifyExpiring(ctx context.Context) (int, error) {
	from, to := s.expiryWindow(ctx)
	docs, err := s.Store.List(ctx, Filter{Status: StatusApproved, ExpiryFrom: from, ExpiryTo: to})
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		info, _ := LookupType(doc.Type)
		message := fmt.Sprintf("Your %s expires on %s", info.Label, doc.ExpiryDate)
		if s.Notify == nil {
			continue
		}
		if err := s.Notify.Notify(ctx, doc.EmployeeID, notifications.TypeDocumentExpiring, "Document expiring soon", message, "/documents/"+doc.ID); err != nil {
			slog.Warn("document expiry notification failed", "documentId", doc.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) expiryWindow(ctx context.Context) (string, string) {
	days := DefaultExpiryWindowDays
	if s.Expiry != nil {
		if n := s.Expiry.DocumentExpiryDays(ctx); n > 0 {
			days = n
		}
	}
	today := s.Now()
	return today.Format(dateLayout), today.AddDate(0, 0, days).Format(dateLayout)
}

package leave

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hris/internal/domain/auth"
)

// Slip renders a one-page PDF confirming an approved request. Only the
// employee, HR and admins may fetch it.
func (s *Service) Slip(ctx context.Context, actor auth.Identity, id string) ([]byte, Request, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, Request{}, err
	}
	if req.EmployeeID != actor.UserID && !actor.IsHROrAdmin() {
		return nil, Request{}, ErrNotVisible
	}
	if req.Status != StatusApproved {
		return nil, Request{}, ErrNotApproved
	}
	raw, err := renderSlip(req)
	if err != nil {
		return nil, Request{}, err
	}
	return raw, req, nil
}

func renderSlip(req Request) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Approval Slip")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	line("Reference", req.ID)
	line("Employee", req.EmployeeName)
	line("Leave type", req.Type)
	line("Period", fmt.Sprintf("%s to %s (%d day(s))", req.StartDate, req.EndDate, req.Days))
	line("Reason", req.Reason)
	line("Handover to", req.HandoverTo)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Approvals")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	if req.LineManagerApprovedAt != nil {
		line("Line manager", fmt.Sprintf("%s on %s", req.LineManagerName, req.LineManagerApprovedAt.Format(dateLayout)))
	}
	if req.HeadOfUnitApprovedAt != nil {
		line("Head of unit", fmt.Sprintf("%s on %s", req.HeadOfUnitName, req.HeadOfUnitApprovedAt.Format(dateLayout)))
	}
	if req.HRApprovedAt != nil {
		line("HR", req.HRApprovedAt.Format(dateLayout))
	}
	if req.ApprovedAt != nil {
		line("Final approval", req.ApprovedAt.Format(dateLayout))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

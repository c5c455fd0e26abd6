package handlers_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
)

func TestLeaveApprovalJourney(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()

	headID := ts.createEmployee(admin, map[string]any{
		"email": "head@example.com", "name": "Hana Head", "password": "HeadPass123", "role": "head_of_unit",
	})
	managerID := ts.createEmployee(admin, map[string]any{
		"email": "lm@example.com", "name": "Lars Manager", "password": "Manager123", "role": "line_manager", "managerId": headID,
	})
	ts.createEmployee(admin, map[string]any{
		"email": "other-lm@example.com", "name": "Olga Other", "password": "Manager123", "role": "line_manager",
	})
	ts.createEmployee(admin, map[string]any{
		"email": "emp@example.com", "name": "Emma Employee", "password": "Employee123", "managerId": managerID,
	})

	employee := ts.login("emp@example.com", "Employee123")
	env := ts.jsonStatus(http.MethodPost, "/api/leave-requests", employee, map[string]any{
		"type":      "annual",
		"startDate": "2026-07-06",
		"endDate":   "2026-07-10",
		"reason":    "Summer break",
	}, http.StatusCreated)
	var created struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		Days         int    `json:"days"`
		EmployeeName string `json:"employeeName"`
	}
	decode(t, env, &created)
	if created.Status != "line_manager_approval" {
		t.Fatalf("expected line_manager_approval, got %s", created.Status)
	}
	if created.Days != 5 {
		t.Fatalf("expected 5 days, got %d", created.Days)
	}

	other := ts.login("other-lm@example.com", "Manager123")
	forbidden := ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, other, map[string]any{
		"status": "head_of_unit_approval",
	}, http.StatusForbidden)
	assertErrorCode(t, forbidden, "forbidden")

	manager := ts.login("lm@example.com", "Manager123")
	env = ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, manager, map[string]any{
		"status":  "head_of_unit_approval",
		"comment": "Enjoy",
	}, http.StatusOK)
	var updated struct {
		Status string `json:"status"`
	}
	decode(t, env, &updated)
	if updated.Status != "head_of_unit_approval" {
		t.Fatalf("expected head_of_unit_approval, got %s", updated.Status)
	}

	skip := ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, admin, map[string]any{
		"status": "line_manager_approval",
	}, http.StatusBadRequest)
	if envelopeErrorCode(skip) == "" {
		t.Fatal("expected backwards transition to be rejected")
	}

	head := ts.login("head@example.com", "HeadPass123")
	ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, head, map[string]any{"status": "hr_approval"}, http.StatusOK)
	env = ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, admin, map[string]any{"status": "approved"}, http.StatusOK)
	decode(t, env, &updated)
	if updated.Status != "approved" {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	ts.jsonStatus(http.MethodDelete, "/api/leave-requests/"+created.ID, employee, nil, http.StatusForbidden)

	resp, _ := ts.do(http.MethodGet, "/api/leave-requests/"+created.ID+"/slip", employee, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected slip, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}

	var notes []struct {
		Type string `json:"type"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/notifications?unread=true", employee, nil, http.StatusOK), &notes)
	if len(notes) == 0 {
		t.Fatal("expected the employee to be notified about their request")
	}
}

func TestDocumentReviewJourney(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	ts.createEmployee(admin, map[string]any{
		"email": "hr@example.com", "name": "Harriet HR", "password": "HrPass1234", "role": "hr",
	})
	ownerID := ts.createEmployee(admin, map[string]any{
		"email": "doc-owner@example.com", "name": "Dan Owner", "password": "Owner12345",
	})
	hr := ts.login("hr@example.com", "HrPass1234")
	owner := ts.login("doc-owner@example.com", "Owner12345")

	resp, env := ts.upload(owner, "cv", "cv.exe", "application/x-msdownload", []byte("MZ"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected disallowed type to be rejected, got %d", resp.StatusCode)
	}
	assertValidationErrorField(t, env, "file")

	content := []byte("%PDF-1.4 resume")
	resp, env = ts.upload(owner, "cv", "resume.pdf", "application/pdf", content)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected upload to succeed, got %d (%+v)", resp.StatusCode, env.Error)
	}
	var doc struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env, &doc)
	if doc.Status != "pending" {
		t.Fatalf("expected pending, got %s", doc.Status)
	}

	ts.jsonStatus(http.MethodPut, "/api/documents/"+doc.ID+"/approve", owner, map[string]any{"status": "approved"}, http.StatusForbidden)

	env = ts.jsonStatus(http.MethodPut, "/api/documents/"+doc.ID+"/approve", hr, map[string]any{
		"status":          "rejected",
		"rejectionReason": "",
	}, http.StatusBadRequest)
	assertValidationErrorField(t, env, "rejectionReason")

	decode(t, ts.jsonStatus(http.MethodGet, "/api/documents/"+doc.ID, owner, nil, http.StatusOK), &doc)
	if doc.Status != "pending" {
		t.Fatalf("expected document to stay pending, got %s", doc.Status)
	}

	resp, _ = ts.do(http.MethodGet, "/api/documents/"+doc.ID+"/download", hr, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected download, got %d", resp.StatusCode)
	}
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	if !bytes.Equal(body.Bytes(), content) {
		t.Fatalf("downloaded content mismatch: %q", body.String())
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "resume.pdf") {
		t.Fatalf("expected original file name in disposition, got %q", cd)
	}

	ts.jsonStatus(http.MethodPut, "/api/documents/"+doc.ID+"/approve", hr, map[string]any{"status": "approved"}, http.StatusOK)

	var compliance struct {
		Compliant bool `json:"compliant"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/documents/compliance/"+ownerID, owner, nil, http.StatusOK), &compliance)
	if compliance.Compliant {
		t.Fatal("expected owner without a ghana card to be non-compliant")
	}

	ts.jsonStatus(http.MethodDelete, "/api/documents/"+doc.ID, owner, nil, http.StatusNoContent)
	ts.jsonStatus(http.MethodGet, "/api/documents/"+doc.ID, owner, nil, http.StatusNotFound)

	var trail []struct {
		Action string `json:"action"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/documents/"+doc.ID+"/audit", hr, nil, http.StatusOK), &trail)
	actions := make([]string, 0, len(trail))
	for _, entry := range trail {
		actions = append(actions, entry.Action)
	}
	want := []string{"uploaded", "downloaded", "approved", "deleted"}
	if strings.Join(actions, ",") != strings.Join(want, ",") {
		t.Fatalf("expected audit %v, got %v", want, actions)
	}

	ts.jsonStatus(http.MethodGet, "/api/documents/"+doc.ID+"/audit", owner, nil, http.StatusForbidden)
}

func TestEmployeeOnboardingJourney(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	id := ts.createEmployee(admin, map[string]any{
		"email": "new@example.com", "name": "Nia New", "password": "Newbie1234", "startDate": "2026-03-02",
	})
	employee := ts.login("new@example.com", "Newbie1234")

	var rec struct {
		Status    string `json:"status"`
		Progress  int    `json:"progress"`
		Checklist []struct {
			ID string `json:"id"`
		} `json:"checklist"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/onboarding/"+id, employee, nil, http.StatusOK), &rec)
	if len(rec.Checklist) == 0 {
		t.Fatal("expected a seeded checklist")
	}

	decode(t, ts.jsonStatus(http.MethodPut, "/api/onboarding/"+id, employee, map[string]any{
		"tasks": []map[string]any{{"id": rec.Checklist[0].ID, "completed": true}},
	}, http.StatusOK), &rec)
	if rec.Status != "in_progress" || rec.Progress == 0 {
		t.Fatalf("expected in_progress with progress, got %s/%d", rec.Status, rec.Progress)
	}

	var me struct {
		OnboardingStatus   string `json:"onboardingStatus"`
		OnboardingProgress int    `json:"onboardingProgress"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/users/me", employee, nil, http.StatusOK), &me)
	if me.OnboardingStatus != "in_progress" || me.OnboardingProgress != rec.Progress {
		t.Fatalf("expected profile to mirror onboarding, got %+v", me)
	}

	ts.jsonStatus(http.MethodPut, "/api/onboarding/"+id, employee, map[string]any{"status": "completed"}, http.StatusForbidden)
	ts.jsonStatus(http.MethodGet, "/api/employees", employee, nil, http.StatusForbidden)
}

func TestCreatedRecordsReadBackWithDefaults(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()

	id := ts.createEmployee(admin, map[string]any{
		"email":      "Round.Trip@Example.com",
		"name":       "Rita Roundtrip",
		"password":   "RoundTrip123",
		"department": "Finance",
		"position":   "Analyst",
		"phone":      "+233 20 000 0000",
		"startDate":  "2026-02-02",
	})
	var emp struct {
		ID               string `json:"id"`
		EmployeeID       string `json:"employeeId"`
		Email            string `json:"email"`
		Name             string `json:"name"`
		Role             string `json:"role"`
		Department       string `json:"department"`
		Position         string `json:"position"`
		Phone            string `json:"phone"`
		StartDate        string `json:"startDate"`
		Status           string `json:"status"`
		OnboardingStatus string `json:"onboardingStatus"`
		CreatedAt        string `json:"createdAt"`
	}
	decode(t, ts.jsonStatus(http.MethodGet, "/api/employees/"+id, admin, nil, http.StatusOK), &emp)
	if emp.ID != id || emp.Email != "round.trip@example.com" || emp.Name != "Rita Roundtrip" ||
		emp.Department != "Finance" || emp.Position != "Analyst" || emp.Phone != "+233 20 000 0000" || emp.StartDate != "2026-02-02" {
		t.Fatalf("supplied fields not returned: %+v", emp)
	}
	if emp.Role != "employee" || emp.Status != "active" || !strings.HasPrefix(emp.EmployeeID, "EMP") ||
		emp.OnboardingStatus == "" || emp.CreatedAt == "" {
		t.Fatalf("server defaults missing: %+v", emp)
	}

	employee := ts.login("round.trip@example.com", "RoundTrip123")
	type leaveView struct {
		ID            string `json:"id"`
		EmployeeID    string `json:"employeeId"`
		EmployeeName  string `json:"employeeName"`
		Type          string `json:"type"`
		StartDate     string `json:"startDate"`
		EndDate       string `json:"endDate"`
		Days          int    `json:"days"`
		Reason        string `json:"reason"`
		HandoverTo    string `json:"handoverTo"`
		Status        string `json:"status"`
		LineManagerID string `json:"lineManagerId"`
		Comments      []any  `json:"comments"`
		CreatedAt     string `json:"createdAt"`
	}
	var created, fetched leaveView
	decode(t, ts.jsonStatus(http.MethodPost, "/api/leave-requests", employee, map[string]any{
		"type":       "annual",
		"startDate":  "2026-08-03",
		"endDate":    "2026-08-05",
		"reason":     "Wedding",
		"handoverTo": "Colleague",
	}, http.StatusCreated), &created)
	decode(t, ts.jsonStatus(http.MethodGet, "/api/leave-requests/"+created.ID, employee, nil, http.StatusOK), &fetched)
	if fetched.Type != "annual" || fetched.StartDate != "2026-08-03" || fetched.EndDate != "2026-08-05" ||
		fetched.Reason != "Wedding" || fetched.HandoverTo != "Colleague" {
		t.Fatalf("supplied fields not returned: %+v", fetched)
	}
	if fetched.EmployeeID != id || fetched.EmployeeName != "Rita Roundtrip" || fetched.Days != 3 ||
		fetched.Status != "line_manager_approval" || fetched.LineManagerID != "" || fetched.Comments == nil || fetched.CreatedAt != created.CreatedAt {
		t.Fatalf("server defaults missing: %+v", fetched)
	}

	// Without a manager only an admin can move the request on.
	hrID := ts.createEmployee(admin, map[string]any{
		"email": "rt-hr@example.com", "name": "Ravi HR", "password": "RavHr12345", "role": "hr",
	})
	hr := ts.login("rt-hr@example.com", "RavHr12345")
	ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, hr, map[string]any{"status": "approved"}, http.StatusForbidden)
	ts.jsonStatus(http.MethodPut, "/api/leave-requests/"+created.ID, admin, map[string]any{"status": "hr_approval"}, http.StatusOK)

	// Deactivation takes effect on tokens already issued.
	ts.jsonStatus(http.MethodPut, "/api/employees/"+hrID, admin, map[string]any{"status": "inactive"}, http.StatusOK)
	env := ts.jsonStatus(http.MethodGet, "/api/users/me", hr, nil, http.StatusUnauthorized)
	assertErrorCode(t, env, "unauthorized")
}

package policy

import (
	"testing"

	apperrors "travelwindow/pkg/errors"
	"travelwindow/pkg/model"
)

func actorWith(role model.Role) model.Actor {
	return model.Actor{ID: "u1", Name: "Test", Role: role}
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected forbidden error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestAuthorize_OperationGrants(t *testing.T) {
	tests := []struct {
		op      Operation
		role    model.Role
		allowed bool
	}{
		{OpCreate, model.RoleAgent1, true},
		{OpCreate, model.RoleAccount, true},
		{OpSubmit, model.RoleAgent2, true},
		{OpSubmit, model.RoleAccount, false},
		{OpVerifyAccount, model.RoleAccount, true},
		{OpVerifyAccount, model.RoleAgent1, false},
		{OpVerifyAdmin, model.RoleAdmin, true},
		{OpVerifyAdmin, model.RoleAccount, false},
		{OpProcessRefund, model.RoleAccount, true},
		{OpProcessRefund, model.RoleAgent2, false},
		{OpRevertCancellation, model.RoleAdmin, true},
		{OpRevertCancellation, model.RoleAccount, false},
		{OpCancel, model.RoleAgent1, true},
		{OpAmend, model.RoleAgent2, true},
	}

	for _, tc := range tests {
		err := Authorize(actorWith(tc.role), tc.op, nil)
		if tc.allowed && err != nil {
			t.Errorf("%s/%s: unexpected refusal: %v", tc.op, tc.role, err)
		}
		if !tc.allowed {
			if err == nil {
				t.Errorf("%s/%s: expected refusal", tc.op, tc.role)
			}
		}
	}
}

func TestAuthorize_AgentsLockedAfterVerification(t *testing.T) {
	verified := &model.Booking{VerifiedByAccount: true}

	assertForbidden(t, Authorize(actorWith(model.RoleAgent1), OpUpdate, verified))
	assertForbidden(t, Authorize(actorWith(model.RoleAgent2), OpUpdate, &model.Booking{VerifiedByAdmin: true}))

	if err := Authorize(actorWith(model.RoleAccount), OpUpdate, verified); err != nil {
		t.Errorf("account should edit verified bookings: %v", err)
	}
	if err := Authorize(actorWith(model.RoleAdmin), OpUpdate, verified); err != nil {
		t.Errorf("admin should edit verified bookings: %v", err)
	}
	if err := Authorize(actorWith(model.RoleAgent1), OpUpdate, &model.Booking{}); err != nil {
		t.Errorf("agent should edit unverified bookings: %v", err)
	}
}

func TestAuthorize_AccountCannotSeeDrafts(t *testing.T) {
	draft := &model.Booking{Status: model.StatusDraft}

	assertForbidden(t, Authorize(actorWith(model.RoleAccount), OpView, draft))

	if err := Authorize(actorWith(model.RoleAgent1), OpView, draft); err != nil {
		t.Errorf("agent should see drafts: %v", err)
	}
	if err := Authorize(actorWith(model.RoleAccount), OpView, &model.Booking{Status: model.StatusPendingVerification}); err != nil {
		t.Errorf("account should see submitted bookings: %v", err)
	}
	if !HidesDrafts(model.RoleAccount) {
		t.Error("HidesDrafts(ACCOUNT) = false")
	}
	if HidesDrafts(model.RoleAdmin) {
		t.Error("HidesDrafts(ADMIN) = true")
	}
}

func TestAuthorizeAssign(t *testing.T) {
	tests := []struct {
		assigner model.Role
		assignee model.Role
		allowed  bool
	}{
		{model.RoleAgent2, model.RoleAgent1, true},
		{model.RoleAgent2, model.RoleAgent2, false},
		{model.RoleAgent1, model.RoleAgent2, false},
		{model.RoleAccount, model.RoleAgent1, true},
		{model.RoleAccount, model.RoleAgent2, true},
		{model.RoleAccount, model.RoleAdmin, false},
		{model.RoleAdmin, model.RoleAccount, true},
		{model.RoleAdmin, model.RoleAdmin, true},
	}

	for _, tc := range tests {
		err := AuthorizeAssign(actorWith(tc.assigner), tc.assignee)
		if tc.allowed && err != nil {
			t.Errorf("%s->%s: unexpected refusal: %v", tc.assigner, tc.assignee, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("%s->%s: expected refusal", tc.assigner, tc.assignee)
		}
	}
}

func TestAuthorizeFieldUpdates(t *testing.T) {
	if err := AuthorizeFieldUpdates(actorWith(model.RoleAdmin), []string{"status", "billingStatus"}); err != nil {
		t.Fatalf("admin should set status fields, got %v", err)
	}
	if err := AuthorizeFieldUpdates(actorWith(model.RoleAgent1), []string{"paxName"}); err != nil {
		t.Fatalf("unrestricted field should pass for agents, got %v", err)
	}
	assertForbidden(t, AuthorizeFieldUpdates(actorWith(model.RoleAgent1), []string{"status"}))
	assertForbidden(t, AuthorizeFieldUpdates(actorWith(model.RoleAccount), []string{"billingStatus"}))
}

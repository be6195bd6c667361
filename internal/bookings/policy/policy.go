// Package policy decides who may do what to a booking. The rules live
// in data tables rather than scattered branches, so a permissions
// review reads one table instead of the whole service layer.
package policy

import (
	"travelwindow/pkg/errors"
	"travelwindow/pkg/model"
)

// Operation names the booking actions the policy gates.
type Operation string

const (
	OpCreate             Operation = "create"
	OpView               Operation = "view"
	OpUpdate             Operation = "update"
	OpSubmit             Operation = "submit"
	OpVerifyAccount      Operation = "verify_account"
	OpVerifyAdmin        Operation = "verify_admin"
	OpAmend              Operation = "amend"
	OpCancel             Operation = "cancel"
	OpProcessRefund      Operation = "process_refund"
	OpRevertCancellation Operation = "revert_cancellation"
	OpAssign             Operation = "assign"
)

// allowed maps each operation to the roles that may perform it at all.
// State-dependent restrictions are layered on in Authorize.
var allowed = map[Operation]map[model.Role]bool{
	OpCreate: {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
	OpView:   {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
	OpUpdate: {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
	OpSubmit: {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAdmin: true},
	OpVerifyAccount: {model.RoleAccount: true, model.RoleAdmin: true},
	OpVerifyAdmin:   {model.RoleAdmin: true},
	OpAmend:  {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
	OpCancel: {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
	OpProcessRefund:      {model.RoleAccount: true, model.RoleAdmin: true},
	OpRevertCancellation: {model.RoleAdmin: true},
	OpAssign: {model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
}

// assignTargets lists which roles each assigner may hand a booking to.
var assignTargets = map[model.Role]map[model.Role]bool{
	model.RoleAgent2:  {model.RoleAgent1: true},
	model.RoleAccount: {model.RoleAgent1: true, model.RoleAgent2: true},
	model.RoleAdmin:   {model.RoleAgent1: true, model.RoleAgent2: true, model.RoleAccount: true, model.RoleAdmin: true},
}

// adminOnlyFields are booking fields only admins may set through a
// general update; every other role reaches them via the lifecycle
// operations.
var adminOnlyFields = map[string]bool{
	"status":        true,
	"billingStatus": true,
}

// AuthorizeFieldUpdates checks the per-role field restrictions for a
// general update. fields holds the json names of the fields being set.
func AuthorizeFieldUpdates(actor model.Actor, fields []string) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	for _, f := range fields {
		if adminOnlyFields[f] {
			return errors.Forbidden("only admins may set " + f)
		}
	}
	return nil
}

// Authorize checks whether actor may perform op on booking. The booking
// may be nil for operations that do not target an existing document
// (create, list). Returns a Forbidden AppError on refusal.
func Authorize(actor model.Actor, op Operation, b *model.Booking) error {
	roles, ok := allowed[op]
	if !ok || !roles[actor.Role] {
		return errors.Forbidden("role " + string(actor.Role) + " may not " + string(op) + " bookings")
	}

	if b == nil {
		return nil
	}

	switch op {
	case OpView:
		if actor.Role == model.RoleAccount && b.Status == model.StatusDraft {
			return errors.Forbidden("draft bookings are not visible to the account role")
		}
	case OpUpdate:
		// Agents are locked out once either verification has happened.
		if actor.Role.IsAgent() && (b.VerifiedByAccount || b.VerifiedByAdmin) {
			return errors.Forbidden("booking is verified and can no longer be edited by agents")
		}
	}
	return nil
}

// AuthorizeAssign checks both the operation grant and the
// assigner-to-assignee matrix.
func AuthorizeAssign(actor model.Actor, assigneeRole model.Role) error {
	if err := Authorize(actor, OpAssign, nil); err != nil {
		return err
	}
	if !assignTargets[actor.Role][assigneeRole] {
		return errors.Forbidden("role " + string(actor.Role) + " may not assign bookings to " + string(assigneeRole))
	}
	return nil
}

// HidesDrafts reports whether list and search results for the role must
// exclude drafts.
func HidesDrafts(role model.Role) bool {
	return role == model.RoleAccount
}

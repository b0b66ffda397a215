// Package policy holds the pure authorization decisions of the service layer.
// Functions here never touch storage: they take the caller and the ownership
// fields of the target resource and answer allow/deny, or hand back a forced
// filter for list operations. Mapping a deny to NotFound (read paths, to hide
// existence) or Forbidden (write paths) is the services' job.
package policy

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserListScope returns the forced filter for user list operations.
// Admin sees everyone. A trainer sees their own profile plus their clients.
// A client sees their own profile plus their trainer; the trainer id must be
// resolved from the client's own profile row by the caller.
func UserListScope(caller domain.Caller, callerProfile *domain.User) repository.UserFilter {
	switch caller.Role {
	case domain.RoleAdmin:
		return repository.UserFilter{}
	case domain.RoleTrainer:
		// Own profile or own clients: _id=self OR trainerId=self.
		self := caller.ID
		return repository.UserFilter{IDs: []primitive.ObjectID{self}, TrainerID: &self}
	default:
		ids := []primitive.ObjectID{caller.ID}
		if callerProfile != nil && callerProfile.TrainerID != nil {
			ids = append(ids, *callerProfile.TrainerID)
		}
		return repository.UserFilter{IDs: ids}
	}
}

// CanReadUser decides single-user visibility. callerProfile is the caller's
// own profile row; it is only consulted for client callers and may be nil
// otherwise.
func CanReadUser(caller domain.Caller, target *domain.User, callerProfile *domain.User) bool {
	if caller.IsAdmin() || target.ID == caller.ID {
		return true
	}
	switch caller.Role {
	case domain.RoleTrainer:
		return target.TrainerID != nil && *target.TrainerID == caller.ID
	case domain.RoleClient:
		if callerProfile == nil || callerProfile.TrainerID == nil {
			return false
		}
		return target.ID == *callerProfile.TrainerID
	}
	return false
}

// CanUpdateUser decides whether the caller may touch the target's basic
// fields at all. Field-level restrictions (status, trainer assignment) are
// checked separately via CanSetUserStatusOrTrainer.
func CanUpdateUser(caller domain.Caller, target *domain.User) bool {
	if caller.IsAdmin() || target.ID == caller.ID {
		return true
	}
	if caller.IsTrainer() {
		return target.IsClient() && target.TrainerID != nil && *target.TrainerID == caller.ID
	}
	return false
}

// CanSetUserStatusOrTrainer reports whether the caller may change the active
// flag or the trainer assignment of any user. Only admins may.
func CanSetUserStatusOrTrainer(caller domain.Caller) bool {
	return caller.IsAdmin()
}

// CanManageUsers reports whether the caller may create or delete users.
func CanManageUsers(caller domain.Caller) bool {
	return caller.IsAdmin()
}

// PlanListScope returns the forced ownership filter for plan list operations.
// Client callers additionally never see hidden plans.
func PlanListScope(caller domain.Caller) repository.PlanFilter {
	switch caller.Role {
	case domain.RoleAdmin:
		return repository.PlanFilter{IncludeHidden: true}
	case domain.RoleTrainer:
		self := caller.ID
		return repository.PlanFilter{TrainerID: &self, IncludeHidden: true}
	default:
		self := caller.ID
		return repository.PlanFilter{ClientID: &self}
	}
}

// CanReadPlan decides single-plan visibility.
func CanReadPlan(caller domain.Caller, plan *domain.Plan) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTrainer:
		return plan.OwnedByTrainer(caller.ID)
	case domain.RoleClient:
		return plan.OwnedByClient(caller.ID) && !plan.IsHidden
	}
	return false
}

// CanMutatePlan decides plan writes, including its exercise rows.
// Clients never mutate plans.
func CanMutatePlan(caller domain.Caller, plan *domain.Plan) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTrainer:
		return plan.OwnedByTrainer(caller.ID)
	}
	return false
}

// CanMarkCompletion decides who may mark completion of a plan exercise.
// Trainers are deliberately excluded, even for their own plans: completion
// records belong to the client doing the work.
func CanMarkCompletion(caller domain.Caller, plan *domain.Plan) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return plan.OwnedByClient(caller.ID)
	}
	return false
}

// CanSeeHiddenExercises reports whether hidden catalog entries are visible.
func CanSeeHiddenExercises(caller domain.Caller) bool {
	return caller.IsAdmin()
}

// CanManageCatalog reports whether the caller may create, update or delete
// exercises and standard reasons.
func CanManageCatalog(caller domain.Caller) bool {
	return caller.IsAdmin()
}

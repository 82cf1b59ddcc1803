// Package lifecycle owns the container status transition rules. The rules
// here are pure; the compare-and-swap that makes a transition stick under
// concurrency lives in the postgres repository.
package lifecycle

import (
	"fmt"
	"time"

	"drc-backend/internal/domain"
)

// EffectiveStatus derives the status surfaced to callers. LATE is a view
// over (CHECKED_OUT, dueAt, now) computed at read time; nothing in the
// system writes LATE to storage, so no background clock is needed.
func EffectiveStatus(stored domain.ContainerStatus, dueAt *time.Time, now time.Time) domain.ContainerStatus {
	if stored == domain.ContainerStatusCheckedOut && dueAt != nil && now.After(*dueAt) {
		return domain.ContainerStatusLate
	}
	return stored
}

// IsOverdue reports whether a checked-out container is past due.
func IsOverdue(c *domain.Container, now time.Time) bool {
	return EffectiveStatus(c.Status, c.DueAt, now) == domain.ContainerStatusLate
}

// CanCheckout guards AVAILABLE -> CHECKED_OUT.
func CanCheckout(c *domain.Container) error {
	if c.Status != domain.ContainerStatusAvailable {
		return fmt.Errorf("%w: %s is %s", domain.ErrContainerUnavailable, c.ContainerID, c.Status)
	}
	return nil
}

// CanReturn guards CHECKED_OUT (including derived LATE) -> AVAILABLE/IN_CLEANING.
func CanReturn(c *domain.Container) error {
	if c.Status != domain.ContainerStatusCheckedOut {
		return fmt.Errorf("%w: %s is %s", domain.ErrNotCheckedOut, c.ContainerID, c.Status)
	}
	return nil
}

// ReturnTarget resolves where a returned container lands for a location's
// return policy.
func ReturnTarget(policy domain.ReturnPolicy) domain.ContainerStatus {
	if policy == domain.ReturnPolicyCleaning {
		return domain.ContainerStatusInCleaning
	}
	return domain.ContainerStatusAvailable
}

// CanMarkDamaged guards AVAILABLE/IN_CLEANING -> DAMAGED. Facilities only.
func CanMarkDamaged(c *domain.Container) error {
	switch c.Status {
	case domain.ContainerStatusAvailable, domain.ContainerStatusInCleaning:
		return nil
	}
	return fmt.Errorf("%w: cannot mark %s damaged while %s", domain.ErrContainerUnavailable, c.ContainerID, c.Status)
}

// CanRepair guards DAMAGED -> AVAILABLE. Facilities only.
func CanRepair(c *domain.Container) error {
	if c.Status != domain.ContainerStatusDamaged {
		return fmt.Errorf("%w: %s is not damaged", domain.ErrContainerUnavailable, c.ContainerID)
	}
	return nil
}

// CanStartCleaning guards AVAILABLE -> IN_CLEANING.
func CanStartCleaning(c *domain.Container) error {
	if c.Status != domain.ContainerStatusAvailable {
		return fmt.Errorf("%w: %s is %s", domain.ErrContainerUnavailable, c.ContainerID, c.Status)
	}
	return nil
}

// CanFinishCleaning guards IN_CLEANING -> AVAILABLE.
func CanFinishCleaning(c *domain.Container) error {
	if c.Status != domain.ContainerStatusInCleaning {
		return fmt.Errorf("%w: %s is not in cleaning", domain.ErrContainerUnavailable, c.ContainerID)
	}
	return nil
}

// CanRetire guards any non-RETIRED state -> RETIRED. RETIRED is terminal:
// containers are never deleted, their history stays append-only.
func CanRetire(c *domain.Container) error {
	if c.Status == domain.ContainerStatusRetired {
		return fmt.Errorf("%w: %s is already retired", domain.ErrContainerUnavailable, c.ContainerID)
	}
	return nil
}

// RequireFacilities gates maintenance actions to facilities and admin roles.
func RequireFacilities(role domain.Role) error {
	if role != domain.RoleFacilities && role != domain.RoleAdmin {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, role)
	}
	return nil
}

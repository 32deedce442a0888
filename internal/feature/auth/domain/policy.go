package domain

import "suggestion_box/internal/feature/auth/domain/entity"

// CanAccess reports whether principal may read or mutate a resource owned by ownerID:
// the owner itself or any moderator.
func CanAccess(principal *entity.User, ownerID uint) bool {
	if principal == nil {
		return false
	}
	return principal.ID == ownerID || principal.IsModerator()
}

// CheckOwnership returns ErrForbidden unless CanAccess allows the principal.
func CheckOwnership(principal *entity.User, ownerID uint) error {
	if !CanAccess(principal, ownerID) {
		return ErrForbidden
	}
	return nil
}

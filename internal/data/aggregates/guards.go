package aggregates

import "strings"

// Invalidating updates are written as "update where currently active"; these helpers turn
// the affected-row outcome of such a guard into a typed failure.

// RequireGuardHit converts a guarded update that matched no active row into NotFound.
func RequireGuardHit(ok bool, message string) error {
	if ok {
		return nil
	}
	return NotFoundError(strings.TrimSpace(message))
}

// RequireRowsAffected is RequireGuardHit for updates that report a row count.
func RequireRowsAffected(n int64, message string) error {
	return RequireGuardHit(n > 0, message)
}

// RequireTargetExists converts a failed terminology lookup into TargetNotFound.
func RequireTargetExists(ok bool, message string) error {
	if ok {
		return nil
	}
	return TargetNotFoundError(strings.TrimSpace(message))
}

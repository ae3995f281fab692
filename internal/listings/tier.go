package listings

import "propertyflow-backend/internal/models"

// FreeTierLimit caps simultaneously active listings on the free tier.
const FreeTierLimit = 5

// CanActivate reports whether an account may bring another listing to
// active. Paid accounts always can; free accounts only below the cap.
// Archiving never goes through this check.
func CanActivate(tier string, activeCount int64) bool {
	if tier != models.TierFree {
		return true
	}
	return activeCount < FreeTierLimit
}

package quota

import "time"

// QuotaReachedNotice is raised when an increment lands exactly on a finite
// ceiling.
type QuotaReachedNotice struct {
	UserID    uint
	Resource  Resource
	Used      int64
	Limit     int64
	PlanTier  PlanTier
	PeriodEnd time.Time
}

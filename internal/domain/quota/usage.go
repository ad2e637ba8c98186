package quota

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("period cannot be zero")

// UsageRecord is the per-user counter row of one billing period.
type UsageRecord struct {
	id           uint
	userID       uint
	periodStart  time.Time
	aiCallsUsed  int64
	projectsUsed int64
	updatedAt    time.Time
}

func NewUsageRecord(userID uint, periodStart time.Time) (*UsageRecord, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if periodStart.IsZero() {
		return nil, ErrInvalidPeriod
	}

	return &UsageRecord{
		userID:      userID,
		periodStart: periodStart.UTC(),
		updatedAt:   time.Now().UTC(),
	}, nil
}

func ReconstructUsageRecord(id, userID uint, periodStart time.Time, aiCallsUsed, projectsUsed int64, updatedAt time.Time) (*UsageRecord, error) {
	if id == 0 {
		return nil, errors.New("usage ID cannot be zero")
	}
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if periodStart.IsZero() {
		return nil, ErrInvalidPeriod
	}

	return &UsageRecord{
		id:           id,
		userID:       userID,
		periodStart:  periodStart.UTC(),
		aiCallsUsed:  aiCallsUsed,
		projectsUsed: projectsUsed,
		updatedAt:    updatedAt,
	}, nil
}

func (u *UsageRecord) ID() uint               { return u.id }
func (u *UsageRecord) UserID() uint           { return u.userID }
func (u *UsageRecord) PeriodStart() time.Time { return u.periodStart }
func (u *UsageRecord) AICallsUsed() int64     { return u.aiCallsUsed }
func (u *UsageRecord) ProjectsUsed() int64    { return u.projectsUsed }
func (u *UsageRecord) UpdatedAt() time.Time   { return u.updatedAt }

// Used returns the counter for a resource; a nil record means no usage yet.
func (u *UsageRecord) Used(r Resource) int64 {
	if u == nil {
		return 0
	}
	if r == ResourceProjects {
		return u.projectsUsed
	}
	return u.aiCallsUsed
}

// Resource is a metered counter.
type Resource string

const (
	ResourceAICalls  Resource = "ai_calls"
	ResourceProjects Resource = "projects"
)

// Limit picks the resource's ceiling out of l.
func (l PlanLimits) Limit(r Resource) int64 {
	if r == ResourceProjects {
		return l.Projects
	}
	return l.AICalls
}

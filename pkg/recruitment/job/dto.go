package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Service DTOs
// ============================================================================

// CreateJobRequest representa la petición para abrir una requisición
type CreateJobRequest struct {
	Title        string     `json:"title" validate:"required,min=2,max=200"`
	Department   string     `json:"department" validate:"max=120"`
	City         string     `json:"city" validate:"max=120"`
	State        string     `json:"state" validate:"max=60"`
	Workload     string     `json:"workload" validate:"max=120"`
	Type         string     `json:"type"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Quantity     int        `json:"quantity" validate:"gte=0"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	RequesterName    *string `json:"requester_name,omitempty"`
	RequesterRole    *string `json:"requester_role,omitempty"`
	InternalNotes    *string `json:"internal_notes,omitempty"`
	RequestType      *string `json:"request_type,omitempty"`
	ReplacedEmployee *string `json:"replaced_employee,omitempty"`

	// SubmitForApproval creates the job directly in pending_approval
	SubmitForApproval bool `json:"submit_for_approval"`
}

type RejectJobRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SetFlowStatusRequest asks for freeze ("frozen"), reactivate ("active") or
// complete ("completed"). Manual allows completion with open positions.
type SetFlowStatusRequest struct {
	Target string `json:"target" validate:"required"`
	Manual bool   `json:"manual"`
}

// CapacityBucket filters jobs by remaining positions
type CapacityBucket string

const (
	CapacityAny    CapacityBucket = ""
	CapacityOpen   CapacityBucket = "open"
	CapacityFilled CapacityBucket = "filled"
)

func (b CapacityBucket) Matches(j *Job) bool {
	switch b {
	case CapacityOpen:
		return j.HasOpenPositions()
	case CapacityFilled:
		return j.IsFilled()
	default:
		return true
	}
}

// Filter is the explicit query object for job listings. Zero values mean
// "no constraint". Region scope is applied by the service on top of it.
type Filter struct {
	Status         *Status         `json:"status,omitempty"`
	ApprovalStatus *ApprovalStatus `json:"approval_status,omitempty"`
	FlowStatus     *FlowStatus     `json:"flow_status,omitempty"`
	State          string          `json:"state,omitempty"`
	City           string          `json:"city,omitempty"`
	Department     string          `json:"department,omitempty"`
	Search         string          `json:"search,omitempty"`
	Expiry         ExpiryBucket    `json:"expiry,omitempty"`
	Capacity       CapacityBucket  `json:"capacity,omitempty"`
	Limit          int             `json:"limit,omitempty"`
	Offset         int             `json:"offset,omitempty"`
}

// Matches evaluates the stored-field constraints in memory. Expiry and
// capacity buckets and paging are applied by the service.
func (f Filter) Matches(j *Job) bool {
	if f.Status != nil && j.Status != *f.Status {
		return false
	}
	if f.ApprovalStatus != nil && j.ApprovalStatus != *f.ApprovalStatus {
		return false
	}
	if f.FlowStatus != nil && j.FlowStatus != *f.FlowStatus {
		return false
	}
	if f.State != "" && !textx.Equal(j.State, f.State) {
		return false
	}
	if f.City != "" && !textx.Equal(j.City, f.City) {
		return false
	}
	if f.Department != "" && !textx.Equal(j.Department, f.Department) {
		return false
	}
	if q := textx.Fold(f.Search); q != "" {
		haystack := textx.Fold(strings.Join([]string{j.Title, j.Department, j.City, j.Description}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// JobView is a job plus its derived expiration
type JobView struct {
	Job
	Expiration Expiration `json:"expiration"`
}

func NewJobView(j *Job, now time.Time, soonDays int) JobView {
	return JobView{Job: *j, Expiration: j.Expiration(now, soonDays)}
}

type JobListResponse struct {
	Jobs  []JobView `json:"jobs"`
	Total int       `json:"total"`
}

// PublicJob is the listing shape for the public site. Internal and
// provenance fields are not exposed.
type PublicJob struct {
	ID           kernel.JobID `json:"id"`
	Title        string       `json:"title"`
	Department   string       `json:"department"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	Workload     string       `json:"workload"`
	Type         Type         `json:"type"`
	Description  string       `json:"description"`
	Requirements string       `json:"requirements"`
	Openings     int          `json:"openings"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
}

func (j *Job) ToPublic() PublicJob {
	return PublicJob{
		ID:           j.ID,
		Title:        j.Title,
		Department:   j.Department,
		City:         j.City,
		State:        j.State,
		Workload:     j.Workload,
		Type:         j.Type,
		Description:  j.Description,
		Requirements: j.Requirements,
		Openings:     j.RemainingPositions(),
		ExpiresAt:    j.ExpiresAt,
		PublishedAt:  j.ApprovedAt,
	}
}

type PublicJobListResponse struct {
	Jobs  []PublicJob `json:"jobs"`
	Total int         `json:"total"`
}

// PurgeResult reports a purge sweep
type PurgeResult struct {
	Purged int       `json:"purged"`
	Cutoff time.Time `json:"cutoff"`
}

package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Job Entity
// ============================================================================

// Job es una requisición de puesto con su ciclo de aprobación y cobertura de vacantes
type Job struct {
	ID           kernel.JobID `db:"id" json:"id"`
	Title        string       `db:"title" json:"title"`
	Department   string       `db:"department" json:"department"`
	City         string       `db:"city" json:"city"`
	State        string       `db:"state" json:"state"`
	Workload     string       `db:"workload" json:"workload"`
	Type         Type         `db:"job_type" json:"type"`
	Description  string       `db:"description" json:"description"`
	Requirements string       `db:"requirements" json:"requirements"`

	Status         Status         `db:"status" json:"status"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`
	FlowStatus     FlowStatus     `db:"flow_status" json:"flow_status"`

	Quantity       int `db:"quantity" json:"quantity"`
	QuantityFilled int `db:"quantity_filled" json:"quantity_filled"`

	ExpiresAt       *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
	ApprovedAt      *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *kernel.UserID `db:"approved_by" json:"approved_by,omitempty"`
	CreatedBy       kernel.UserID  `db:"created_by" json:"created_by"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`

	// Internal-only, never part of the public listing
	RequesterName    *string `db:"requester_name" json:"requester_name,omitempty"`
	RequesterRole    *string `db:"requester_role" json:"requester_role,omitempty"`
	InternalNotes    *string `db:"internal_notes" json:"internal_notes,omitempty"`
	RequestType      *string `db:"request_type" json:"request_type,omitempty"`
	ReplacedEmployee *string `db:"replaced_employee" json:"replaced_employee,omitempty"`

	DeletedAt *time.Time     `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy *kernel.UserID `db:"deleted_by" json:"deleted_by,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (j *Job) IsDeleted() bool {
	return j.DeletedAt != nil
}

func (j *Job) Region() regionscope.Region {
	return regionscope.Region{State: j.State, City: j.City}
}

// StateLabel collapses the three status fields into the single state name
// used in transitions and history: deleted, the approval status until the job
// is approved, then frozen/completed, then the publication status.
func (j *Job) StateLabel() string {
	switch {
	case j.IsDeleted():
		return "deleted"
	case j.ApprovalStatus != ApprovalActive:
		return string(j.ApprovalStatus)
	case j.FlowStatus != FlowActive:
		return string(j.FlowStatus)
	default:
		return string(j.Status)
	}
}

// IsOpenProcess reports whether the job is approved, published and taking
// candidates. Invitations only count as outstanding against open processes.
func (j *Job) IsOpenProcess() bool {
	return !j.IsDeleted() &&
		j.Status == StatusActive &&
		j.ApprovalStatus == ApprovalActive &&
		j.FlowStatus == FlowActive
}

// HasOpenPositions reports quantity_filled < quantity
func (j *Job) HasOpenPositions() bool {
	return j.QuantityFilled < j.Quantity
}

func (j *Job) RemainingPositions() int {
	if j.QuantityFilled >= j.Quantity {
		return 0
	}
	return j.Quantity - j.QuantityFilled
}

// IsFilled reports that every position is taken, making the job eligible for completion
func (j *Job) IsFilled() bool {
	return j.QuantityFilled >= j.Quantity
}

// MissingRequiredFields lists the fields a requisition needs before approval
func (j *Job) MissingRequiredFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("title", j.Title)
	check("department", j.Department)
	check("city", j.City)
	check("state", j.State)
	check("workload", j.Workload)
	check("type", string(j.Type))
	if j.Quantity < 1 {
		missing = append(missing, "quantity")
	}
	return missing
}

// IsPubliclyVisible reports whether the job belongs in the public listing at now
func (j *Job) IsPubliclyVisible(now time.Time) bool {
	return j.IsOpenProcess() && !j.Expiration(now, 0).Expired
}

// ============================================================================
// Talent Bank
// ============================================================================

// DefaultTalentBankTitle is the title of the synthetic catch-all requisition
const DefaultTalentBankTitle = "Talent Bank"

var talentBankTitles = []string{DefaultTalentBankTitle, "Banco de Talentos"}

// IsTalentBankTitle reports whether title names the talent bank, using the
// configured title plus the known spellings
func IsTalentBankTitle(title string, configured ...string) bool {
	return textx.ContainsFold(append(append([]string{}, talentBankTitles...), configured...), title)
}

// TalentBankTitles returns every spelling accepted for the talent bank title
func TalentBankTitles(configured ...string) []string {
	return append(append([]string{}, talentBankTitles...), configured...)
}

// CanonicalTalentBank picks the canonical instance among duplicated talent
// bank jobs: approval_status active wins, then the most recently created.
// Deleted jobs are ignored. Returns nil when none qualify.
func CanonicalTalentBank(jobs []*Job) *Job {
	var best *Job
	for _, j := range jobs {
		if j == nil || j.IsDeleted() {
			continue
		}
		if best == nil || betterTalentBank(j, best) {
			best = j
		}
	}
	return best
}

func betterTalentBank(a, b *Job) bool {
	aActive := a.ApprovalStatus == ApprovalActive
	bActive := b.ApprovalStatus == ApprovalActive
	if aActive != bActive {
		return aActive
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// ============================================================================
// Fill accounting
// ============================================================================

// AddFill consumes one position. It never clamps: a full job fails with
// CapacityExceeded.
func (j *Job) AddFill(now time.Time) error {
	if j.IsDeleted() {
		return ErrEntityDeleted().WithDetail("job_id", j.ID.String())
	}
	if j.QuantityFilled >= j.Quantity {
		return ErrCapacityExceeded().
			WithDetail("job_id", j.ID.String()).
			WithDetail("quantity", j.Quantity).
			WithDetail("quantity_filled", j.QuantityFilled)
	}
	j.QuantityFilled++
	j.UpdatedAt = now
	return nil
}

// RemoveFill releases one position, used to compensate a fill whose
// candidate update could not be committed
func (j *Job) RemoveFill(now time.Time) {
	if j.QuantityFilled > 0 {
		j.QuantityFilled--
		j.UpdatedAt = now
	}
}

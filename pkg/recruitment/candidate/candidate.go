package candidate

import (
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Candidate Entity
// ============================================================================

// Candidate is one application to one job. A person applying to several jobs
// has one record per job; talent bank records have no job or are bound to
// the talent bank requisition.
type Candidate struct {
	ID                kernel.CandidateID  `db:"id" json:"id"`
	JobID             *kernel.JobID       `db:"job_id" json:"job_id,omitempty"`
	SourceCandidateID *kernel.CandidateID `db:"source_candidate_id" json:"source_candidate_id,omitempty"`

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
	City  string `db:"city" json:"city"`
	State string `db:"state" json:"state"`

	ResumeURL      string `db:"resume_url" json:"resume_url"`
	ResumeFilename string `db:"resume_filename" json:"resume_filename"`

	Status       Status       `db:"status" json:"status"`
	LegalStatus  *LegalStatus `db:"legal_status" json:"legal_status,omitempty"`
	LegalComment *string      `db:"legal_comment" json:"legal_comment,omitempty"`
	Restricted   bool         `db:"restricted" json:"restricted"`

	HasCNH            bool   `db:"has_cnh" json:"has_cnh"`
	CNHCategory       string `db:"cnh_category" json:"cnh_category"`
	VehicleType       string `db:"vehicle_type" json:"vehicle_type"`
	IsPCD             bool   `db:"is_pcd" json:"is_pcd"`
	AvailableToTravel bool   `db:"available_to_travel" json:"available_to_travel"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizedEmail is the key used for duplicate invitation checks
func (c *Candidate) NormalizedEmail() string {
	return textx.NormalizeEmail(c.Email)
}

// Region is the candidate's own location. Authorization uses the job's
// region when the candidate is bound to one.
func (c *Candidate) Region() regionscope.Region {
	return regionscope.Region{State: c.State, City: c.City}
}

func (c *Candidate) HasJob() bool {
	return c.JobID != nil && !c.JobID.IsEmpty()
}

func (c *Candidate) IsTerminal() bool {
	return c.Status.IsTerminal()
}

// InviteTo copies a talent bank record into a new invited application for
// jobID. The source record is left untouched.
func (c *Candidate) InviteTo(jobID kernel.JobID, id kernel.CandidateID, now time.Time) Candidate {
	source := c.ID
	return Candidate{
		ID:                id,
		JobID:             &jobID,
		SourceCandidateID: &source,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		City:              c.City,
		State:             c.State,
		ResumeURL:         c.ResumeURL,
		ResumeFilename:    c.ResumeFilename,
		Status:            StatusInvited,
		HasCNH:            c.HasCNH,
		CNHCategory:       c.CNHCategory,
		VehicleType:       c.VehicleType,
		IsPCD:             c.IsPCD,
		AvailableToTravel: c.AvailableToTravel,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

package candidate

import (
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Service DTOs
// ============================================================================

// ApplyRequest is a public application. Without JobID it is a talent bank
// submission.
type ApplyRequest struct {
	JobID             *string `json:"job_id,omitempty"`
	Name              string  `json:"name" validate:"required,min=2,max=200"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             string  `json:"phone" validate:"max=40"`
	City              string  `json:"city" validate:"max=120"`
	State             string  `json:"state" validate:"max=60"`
	ResumeURL         string  `json:"resume_url" validate:"omitempty,max=500"`
	ResumeFilename    string  `json:"resume_filename" validate:"max=255"`
	HasCNH            bool    `json:"has_cnh"`
	CNHCategory       string  `json:"cnh_category" validate:"max=5"`
	VehicleType       string  `json:"vehicle_type" validate:"max=60"`
	IsPCD             bool    `json:"is_pcd"`
	AvailableToTravel bool    `json:"available_to_travel"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type LegalDecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
	Comment  string `json:"comment"`
}

type InviteRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	JobID       string `json:"job_id" validate:"required"`
}

type InviteBatchRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,max=200,dive,required"`
	JobID        string   `json:"job_id" validate:"required"`
}

// InviteFailure explains why one candidate of a batch was not invited
type InviteFailure struct {
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

type InviteBatchResult struct {
	Invited  []*Candidate    `json:"invited"`
	Failures []InviteFailure `json:"failures"`
}

// Filter is the explicit query object for candidate listings. Region scope is
// applied by the service on top of it.
type Filter struct {
	JobID             *kernel.JobID `json:"job_id,omitempty"`
	WithoutJob        bool          `json:"without_job,omitempty"`
	Status            *Status       `json:"status,omitempty"`
	State             string        `json:"state,omitempty"`
	City              string        `json:"city,omitempty"`
	Search            string        `json:"search,omitempty"`
	HasCNH            *bool         `json:"has_cnh,omitempty"`
	CNHCategory       string        `json:"cnh_category,omitempty"`
	VehicleType       string        `json:"vehicle_type,omitempty"`
	IsPCD             *bool         `json:"is_pcd,omitempty"`
	AvailableToTravel *bool         `json:"available_to_travel,omitempty"`
	Limit             int           `json:"limit,omitempty"`
	Offset            int           `json:"offset,omitempty"`
}

// Matches evaluates the filter in memory, ignoring paging
func (f Filter) Matches(c *Candidate) bool {
	if f.JobID != nil && (c.JobID == nil || *c.JobID != *f.JobID) {
		return false
	}
	if f.WithoutJob && c.HasJob() {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.State != "" && !textx.Equal(c.State, f.State) {
		return false
	}
	if f.City != "" && !textx.Equal(c.City, f.City) {
		return false
	}
	if q := textx.Fold(f.Search); q != "" {
		if !strings.Contains(textx.Fold(c.Name+" "+c.Email), q) {
			return false
		}
	}
	if f.HasCNH != nil && c.HasCNH != *f.HasCNH {
		return false
	}
	if f.CNHCategory != "" && !strings.EqualFold(c.CNHCategory, f.CNHCategory) {
		return false
	}
	if f.VehicleType != "" && !textx.Equal(c.VehicleType, f.VehicleType) {
		return false
	}
	if f.IsPCD != nil && c.IsPCD != *f.IsPCD {
		return false
	}
	if f.AvailableToTravel != nil && c.AvailableToTravel != *f.AvailableToTravel {
		return false
	}
	return true
}

type CandidateListResponse struct {
	Candidates []*Candidate `json:"candidates"`
	Total      int          `json:"total"`
}

// ResumeUpload is the stored key of an uploaded résumé, to be sent back in
// ApplyRequest
type ResumeUpload struct {
	ResumeURL      string `json:"resume_url"`
	ResumeFilename string `json:"resume_filename"`
	Size           int    `json:"size"`
}

package candidate

import (
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Selection status
// ============================================================================

type Status string

const (
	StatusInvited          Status = "invited"
	StatusRegistered       Status = "registered"
	StatusResumeAnalysis   Status = "resume_analysis"
	StatusHRInterview      Status = "hr_interview"
	StatusManagerInterview Status = "manager_interview"
	StatusLegalReview      Status = "legal_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
)

// pipeline order. Invited sits before Registered: an invited candidate
// moves forward once they confirm.
var rank = map[Status]int{
	StatusInvited:          0,
	StatusRegistered:       1,
	StatusResumeAnalysis:   2,
	StatusHRInterview:      3,
	StatusManagerInterview: 4,
	StatusLegalReview:      5,
	StatusApproved:         6,
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	if s == StatusRejected {
		return true
	}
	_, ok := rank[s]
	return ok
}

// IsTerminal reports Approved or Rejected
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var statusSynonyms = map[string]Status{
	"invited":               StatusInvited,
	"convidado":             StatusInvited,
	"convidada":             StatusInvited,
	"registered":            StatusRegistered,
	"cadastrado":            StatusRegistered,
	"inscrito":              StatusRegistered,
	"resume_analysis":       StatusResumeAnalysis,
	"analise_de_curriculo":  StatusResumeAnalysis,
	"analise_curricular":    StatusResumeAnalysis,
	"hr_interview":          StatusHRInterview,
	"entrevista_rh":         StatusHRInterview,
	"entrevista_com_rh":     StatusHRInterview,
	"manager_interview":     StatusManagerInterview,
	"entrevista_gestor":     StatusManagerInterview,
	"entrevista_com_gestor": StatusManagerInterview,
	"legal_review":          StatusLegalReview,
	"analise_juridica":      StatusLegalReview,
	"revisao_juridica":      StatusLegalReview,
	"juridico":              StatusLegalReview,
	"approved":              StatusApproved,
	"aprovado":              StatusApproved,
	"aprovada":              StatusApproved,
	"contratado":            StatusApproved,
	"rejected":              StatusRejected,
	"reprovado":             StatusRejected,
	"reprovada":             StatusRejected,
}

// ParseStatus normalizes a selection status, accepting the Portuguese labels
func ParseStatus(s string) (Status, error) {
	if st, ok := statusSynonyms[textx.Key(s)]; ok {
		return st, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "status").WithDetail("value", s)
}

// ============================================================================
// Legal review
// ============================================================================

type LegalStatus string

const (
	LegalPending                  LegalStatus = "pending"
	LegalApproved                 LegalStatus = "approved"
	LegalApprovedWithRestrictions LegalStatus = "approved_with_restrictions"
	LegalRejected                 LegalStatus = "rejected"
)

var legalSynonyms = map[string]LegalStatus{
	"pending":                    LegalPending,
	"pendente":                   LegalPending,
	"approved":                   LegalApproved,
	"aprovado":                   LegalApproved,
	"approved_with_restrictions": LegalApprovedWithRestrictions,
	"aprovado_com_restricoes":    LegalApprovedWithRestrictions,
	"aprovado_com_ressalvas":     LegalApprovedWithRestrictions,
	"rejected":                   LegalRejected,
	"reprovado":                  LegalRejected,
}

func ParseLegalStatus(s string) (LegalStatus, error) {
	if ls, ok := legalSynonyms[textx.Key(s)]; ok {
		return ls, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "legal_status").WithDetail("value", s)
}

// RequiresComment reports decisions that must carry a justification
func (l LegalStatus) RequiresComment() bool {
	return l == LegalApprovedWithRestrictions || l == LegalRejected
}

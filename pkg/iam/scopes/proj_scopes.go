package scopes

import "github.com/Abraxas-365/recruitflow/pkg/kernel"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - recruitment workflow
// ============================================================================

const (
	// Job requisition scopes
	ScopeJobsAll     = "jobs:*"
	ScopeJobsRead    = "jobs:read"
	ScopeJobsWrite   = "jobs:write"   // create, submit, flow changes
	ScopeJobsApprove = "jobs:approve" // approve and reject requisitions
	ScopeJobsDelete  = "jobs:delete"  // soft delete and restore

	// Candidate pipeline scopes
	ScopeCandidatesAll         = "candidates:*"
	ScopeCandidatesRead        = "candidates:read"
	ScopeCandidatesWrite       = "candidates:write" // move along the pipeline
	ScopeCandidatesInvite      = "candidates:invite"
	ScopeCandidatesLegalReview = "candidates:legal_review"
	ScopeCandidatesDelete      = "candidates:delete"
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Jobs": {
		ScopeJobsAll,
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeJobsApprove,
		ScopeJobsDelete,
	},
	"Candidates": {
		ScopeCandidatesAll,
		ScopeCandidatesRead,
		ScopeCandidatesWrite,
		ScopeCandidatesInvite,
		ScopeCandidatesLegalReview,
		ScopeCandidatesDelete,
	},
}

// DomainScopeDescriptions provides descriptions for domain-specific scopes
var DomainScopeDescriptions = map[string]string{
	ScopeJobsAll:     "Acesso total a vagas",
	ScopeJobsRead:    "Ver vagas",
	ScopeJobsWrite:   "Criar vagas e alterar o fluxo",
	ScopeJobsApprove: "Aprovar ou reprovar requisições de vaga",
	ScopeJobsDelete:  "Excluir e restaurar vagas",

	ScopeCandidatesAll:         "Acesso total a candidatos",
	ScopeCandidatesRead:        "Ver candidatos",
	ScopeCandidatesWrite:       "Alterar etapa do processo seletivo",
	ScopeCandidatesInvite:      "Convidar candidatos do banco de talentos",
	ScopeCandidatesLegalReview: "Registrar parecer jurídico",
	ScopeCandidatesDelete:      "Excluir candidatos",
}

// DomainScopeGroups is the scope template of each RH role
var DomainScopeGroups = map[string][]string{
	string(kernel.RoleAdmin): {
		ScopeAll,
	},
	string(kernel.RoleRecruiter): {
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeCandidatesRead,
		ScopeCandidatesWrite,
		ScopeCandidatesInvite,
	},
	string(kernel.RoleManager): {
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeJobsApprove,
		ScopeJobsDelete,
		ScopeCandidatesRead,
		ScopeCandidatesWrite,
		ScopeCandidatesInvite,
	},
	string(kernel.RoleLegal): {
		ScopeJobsRead,
		ScopeCandidatesRead,
		ScopeCandidatesLegalReview,
	},
}

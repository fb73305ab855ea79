package job

import (
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// ============================================================================
// Status enums
// ============================================================================

// Status is the publication state of a requisition
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusClosed   Status = "closed"
	StatusInactive Status = "inactive"
)

// ApprovalStatus tracks the requisition through the approval pipeline
type ApprovalStatus string

const (
	ApprovalDraft           ApprovalStatus = "draft"
	ApprovalPendingApproval ApprovalStatus = "pending_approval"
	ApprovalActive          ApprovalStatus = "active"
	ApprovalRejected        ApprovalStatus = "rejected"
	ApprovalClosed          ApprovalStatus = "closed"
)

// FlowStatus controls listing visibility independently of approval
type FlowStatus string

const (
	FlowActive    FlowStatus = "active"
	FlowCompleted FlowStatus = "completed"
	FlowFrozen    FlowStatus = "frozen"
)

// Type is the employment contract of the position
type Type string

const (
	TypeCLT        Type = "clt"
	TypeInternship Type = "internship"
	TypeApprentice Type = "apprentice"
	TypeOutsourced Type = "outsourced"
	TypeTemporary  Type = "temporary"
)

// Legacy rows and forms carry Portuguese labels; every accepted spelling is
// folded with textx.Key before lookup.
var statusSynonyms = map[string]Status{
	"draft":     StatusDraft,
	"rascunho":  StatusDraft,
	"active":    StatusActive,
	"ativo":     StatusActive,
	"ativa":     StatusActive,
	"closed":    StatusClosed,
	"fechado":   StatusClosed,
	"fechada":   StatusClosed,
	"encerrada": StatusClosed,
	"inactive":  StatusInactive,
	"inativo":   StatusInactive,
	"inativa":   StatusInactive,
}

var approvalSynonyms = map[string]ApprovalStatus{
	"draft":                ApprovalDraft,
	"rascunho":             ApprovalDraft,
	"pending_approval":     ApprovalPendingApproval,
	"pending":              ApprovalPendingApproval,
	"pendente":             ApprovalPendingApproval,
	"aguardando_aprovacao": ApprovalPendingApproval,
	"pendente_aprovacao":   ApprovalPendingApproval,
	"active":               ApprovalActive,
	"approved":             ApprovalActive,
	"ativo":                ApprovalActive,
	"ativa":                ApprovalActive,
	"aprovado":             ApprovalActive,
	"aprovada":             ApprovalActive,
	"rejected":             ApprovalRejected,
	"rejeitado":            ApprovalRejected,
	"rejeitada":            ApprovalRejected,
	"reprovado":            ApprovalRejected,
	"reprovada":            ApprovalRejected,
	"closed":               ApprovalClosed,
	"fechado":              ApprovalClosed,
	"fechada":              ApprovalClosed,
	"encerrado":            ApprovalClosed,
	"encerrada":            ApprovalClosed,
}

var flowSynonyms = map[string]FlowStatus{
	"active":     FlowActive,
	"ativo":      FlowActive,
	"ativa":      FlowActive,
	"completed":  FlowCompleted,
	"concluido":  FlowCompleted,
	"concluida":  FlowCompleted,
	"finalizado": FlowCompleted,
	"finalizada": FlowCompleted,
	"frozen":     FlowFrozen,
	"congelado":  FlowFrozen,
	"congelada":  FlowFrozen,
}

var typeSynonyms = map[string]Type{
	"clt":            TypeCLT,
	"efetivo":        TypeCLT,
	"internship":     TypeInternship,
	"estagio":        TypeInternship,
	"apprentice":     TypeApprentice,
	"aprendiz":       TypeApprentice,
	"jovem_aprendiz": TypeApprentice,
	"outsourced":     TypeOutsourced,
	"terceirizado":   TypeOutsourced,
	"temporary":      TypeTemporary,
	"temporario":     TypeTemporary,
}

// ParseStatus normalizes s, rejecting unknown values
func ParseStatus(s string) (Status, error) {
	if v, ok := statusSynonyms[textx.Key(s)]; ok {
		return v, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "status").WithDetail("value", s)
}

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	if v, ok := approvalSynonyms[textx.Key(s)]; ok {
		return v, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "approval_status").WithDetail("value", s)
}

func ParseFlowStatus(s string) (FlowStatus, error) {
	if v, ok := flowSynonyms[textx.Key(s)]; ok {
		return v, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "flow_status").WithDetail("value", s)
}

func ParseType(s string) (Type, error) {
	if v, ok := typeSynonyms[textx.Key(s)]; ok {
		return v, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "type").WithDetail("value", s)
}

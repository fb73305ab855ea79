package candidate

import (
	"net/http"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CANDIDATE")

var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidato não encontrado")
	CodeInvalidTransition      = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Mudança de etapa não permitida para o candidato")
	CodeCommentRequired        = ErrRegistry.Register("COMMENT_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Informe o comentário do parecer jurídico")
	CodeDuplicateInvitation    = ErrRegistry.Register("DUPLICATE_INVITATION", errx.TypeConflict, http.StatusConflict, "Este e-mail já possui um convite em um processo aberto")
	CodeConcurrentModification = ErrRegistry.Register("CONCURRENT_MODIFICATION", errx.TypeConflict, http.StatusConflict, "O candidato foi alterado por outro usuário; tente novamente")
	CodeNotTalentBank          = ErrRegistry.Register("NOT_TALENT_BANK", errx.TypeBusiness, http.StatusConflict, "Somente candidatos do banco de talentos podem ser convidados")
	CodeUnknownStatus          = ErrRegistry.Register("UNKNOWN_STATUS", errx.TypeValidation, http.StatusBadRequest, "Status desconhecido")
	CodeInvalidLegalDecision   = ErrRegistry.Register("INVALID_LEGAL_DECISION", errx.TypeValidation, http.StatusBadRequest, "Parecer jurídico inválido")
	CodeInvalidResume          = ErrRegistry.Register("INVALID_RESUME", errx.TypeValidation, http.StatusBadRequest, "Currículo inválido: envie PDF, DOC ou DOCX de até 10 MB")
	CodeStorageUnavailable     = ErrRegistry.Register("STORAGE_UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Armazenamento de currículos indisponível")
)

func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrCommentRequired() *errx.Error {
	return ErrRegistry.New(CodeCommentRequired)
}

func ErrDuplicateInvitation() *errx.Error {
	return ErrRegistry.New(CodeDuplicateInvitation)
}

func ErrConcurrentModification() *errx.Error {
	return ErrRegistry.New(CodeConcurrentModification)
}

func ErrNotTalentBank() *errx.Error {
	return ErrRegistry.New(CodeNotTalentBank)
}

func ErrUnknownStatus() *errx.Error {
	return ErrRegistry.New(CodeUnknownStatus)
}

func ErrInvalidLegalDecision() *errx.Error {
	return ErrRegistry.New(CodeInvalidLegalDecision)
}

func ErrInvalidResume() *errx.Error {
	return ErrRegistry.New(CodeInvalidResume)
}

func ErrStorageUnavailable() *errx.Error {
	return ErrRegistry.New(CodeStorageUnavailable)
}

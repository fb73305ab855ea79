package job

import (
	"net/http"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("JOB")

var (
	CodeJobNotFound             = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Vaga não encontrada")
	CodeInvalidTransition       = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Transição de status não permitida para a vaga")
	CodeCapacityExceeded        = ErrRegistry.Register("CAPACITY_EXCEEDED", errx.TypeBusiness, http.StatusConflict, "Vaga já está com todas as posições preenchidas")
	CodeEntityDeleted           = ErrRegistry.Register("ENTITY_DELETED", errx.TypeBusiness, http.StatusGone, "Vaga foi excluída")
	CodeConcurrentModification  = ErrRegistry.Register("CONCURRENT_MODIFICATION", errx.TypeConflict, http.StatusConflict, "A vaga foi alterada por outro usuário; tente novamente")
	CodeMissingRequiredFields   = ErrRegistry.Register("MISSING_REQUIRED_FIELDS", errx.TypeValidation, http.StatusBadRequest, "Preencha os campos obrigatórios da vaga antes de enviar para aprovação")
	CodeRejectionReasonRequired = ErrRegistry.Register("REJECTION_REASON_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Informe o motivo da reprovação")
	CodeRestoreWindowExpired    = ErrRegistry.Register("RESTORE_WINDOW_EXPIRED", errx.TypeBusiness, http.StatusGone, "O prazo para restaurar esta vaga expirou")
	CodeNotFilled               = ErrRegistry.Register("NOT_FILLED", errx.TypeBusiness, http.StatusConflict, "A vaga ainda possui posições em aberto")
	CodeUnknownStatus           = ErrRegistry.Register("UNKNOWN_STATUS", errx.TypeValidation, http.StatusBadRequest, "Status desconhecido")
	CodeInvalidQuantity         = ErrRegistry.Register("INVALID_QUANTITY", errx.TypeValidation, http.StatusBadRequest, "A quantidade de posições deve ser maior que zero")
	CodeNotOpen                 = ErrRegistry.Register("NOT_OPEN", errx.TypeBusiness, http.StatusConflict, "A vaga não está aberta para candidaturas")
	CodeTalentBankNotFound      = ErrRegistry.Register("TALENT_BANK_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Banco de talentos não encontrado")
)

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrCapacityExceeded() *errx.Error {
	return ErrRegistry.New(CodeCapacityExceeded)
}

func ErrEntityDeleted() *errx.Error {
	return ErrRegistry.New(CodeEntityDeleted)
}

func ErrConcurrentModification() *errx.Error {
	return ErrRegistry.New(CodeConcurrentModification)
}

func ErrMissingRequiredFields() *errx.Error {
	return ErrRegistry.New(CodeMissingRequiredFields)
}

func ErrRejectionReasonRequired() *errx.Error {
	return ErrRegistry.New(CodeRejectionReasonRequired)
}

func ErrRestoreWindowExpired() *errx.Error {
	return ErrRegistry.New(CodeRestoreWindowExpired)
}

func ErrNotFilled() *errx.Error {
	return ErrRegistry.New(CodeNotFilled)
}

func ErrUnknownStatus() *errx.Error {
	return ErrRegistry.New(CodeUnknownStatus)
}

func ErrInvalidQuantity() *errx.Error {
	return ErrRegistry.New(CodeInvalidQuantity)
}

func ErrNotOpen() *errx.Error {
	return ErrRegistry.New(CodeNotOpen)
}

func ErrTalentBankNotFound() *errx.Error {
	return ErrRegistry.New(CodeTalentBankNotFound)
}

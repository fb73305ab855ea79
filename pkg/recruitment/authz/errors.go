package authz

import (
	"net/http"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTHZ")

var (
	CodeUnauthenticated     = ErrRegistry.Register("UNAUTHENTICATED", errx.TypeAuthorization, http.StatusUnauthorized, "Sessão inválida ou expirada")
	CodeInsufficientRole    = ErrRegistry.Register("INSUFFICIENT_ROLE", errx.TypeAuthorization, http.StatusForbidden, "Seu perfil não permite esta ação")
	CodeOutOfRegionScope    = ErrRegistry.Register("OUT_OF_REGION_SCOPE", errx.TypeAuthorization, http.StatusForbidden, "Registro fora da sua região de atuação")
	CodeSelfActionForbidden = ErrRegistry.Register("SELF_ACTION_FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Esta ação não pode ser aplicada à sua própria conta")
	CodeEntityDeleted       = ErrRegistry.Register("ENTITY_DELETED", errx.TypeBusiness, http.StatusGone, "O registro foi excluído")
)

func ErrUnauthenticated() *errx.Error {
	return ErrRegistry.New(CodeUnauthenticated)
}

func ErrInsufficientRole() *errx.Error {
	return ErrRegistry.New(CodeInsufficientRole)
}

func ErrOutOfRegionScope() *errx.Error {
	return ErrRegistry.New(CodeOutOfRegionScope)
}

func ErrSelfActionForbidden() *errx.Error {
	return ErrRegistry.New(CodeSelfActionForbidden)
}

func ErrEntityDeleted() *errx.Error {
	return ErrRegistry.New(CodeEntityDeleted)
}

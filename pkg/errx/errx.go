package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type clasifica un error de dominio
type Type string

const (
	TypeInternal      Type = "INTERNAL"
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"
)

// HTTPStatus devuelve el status HTTP por defecto de un tipo
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code identifica un error registrado, con el prefijo del dominio (ej. "JOB.NOT_FOUND")
type Code string

func (c Code) String() string { return string(c) }

// Error es el error estándar de la aplicación
type Error struct {
	Message    string         `json:"message"`
	Code       Code           `json:"code,omitempty"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	prefix := string(e.Type)
	if e.Code != "" {
		prefix = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega un detalle al error y lo devuelve para encadenar
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adjunta el error subyacente
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New crea un error sin código registrado
func New(message string, t Type) *Error {
	return &Error{
		Message:    message,
		Type:       t,
		HTTPStatus: t.HTTPStatus(),
	}
}

// Wrap envuelve un error existente. Si err ya es un *Error con código, se preserva.
func Wrap(err error, message string, t Type) *Error {
	var existing *Error
	if errors.As(err, &existing) && existing.Code != "" {
		return existing
	}
	return &Error{
		Message:    message,
		Type:       t,
		HTTPStatus: t.HTTPStatus(),
		Err:        err,
	}
}

// As extrae un *Error de la cadena
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf devuelve el código del error, o vacío si no tiene
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// IsCode reporta si err (o alguno en su cadena) tiene el código dado
func IsCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// IsType reporta si err es un *Error del tipo dado
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

// ============================================================================
// Registry
// ============================================================================

type definition struct {
	typ        Type
	httpStatus int
	message    string
}

// Registry agrupa los errores de un dominio bajo un prefijo
type Registry struct {
	prefix string
	mu     sync.RWMutex
	defs   map[Code]definition
}

// NewRegistry crea un registro de errores para un dominio
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register registra un código y devuelve su identificador completo
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "." + code)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[full] = definition{typ: t, httpStatus: httpStatus, message: message}
	return full
}

// New crea una instancia del error registrado
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Message:    "unregistered error code",
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &Error{
		Message:    def.message,
		Code:       code,
		Type:       def.typ,
		HTTPStatus: def.httpStatus,
	}
}

// NewWithCause crea el error registrado envolviendo la causa
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

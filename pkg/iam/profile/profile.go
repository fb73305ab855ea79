package profile

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/lib/pq"
)

// ============================================================================
// Profile Entity
// ============================================================================

// Profile es la cuenta de un usuario de RH: rol, flag de administrador y las
// asignaciones regionales que limitan lo que puede ver
type Profile struct {
	ID      kernel.UserID `db:"id" json:"id"`
	Email   string        `db:"email" json:"email"`
	Name    string        `db:"name" json:"name"`
	Role    kernel.Role   `db:"role" json:"role"`
	IsAdmin bool          `db:"is_admin" json:"is_admin"`

	AssignedStates      pq.StringArray `db:"assigned_states" json:"assigned_states"`
	AssignedCities      pq.StringArray `db:"assigned_cities" json:"assigned_cities"`
	AssignedDepartments pq.StringArray `db:"assigned_departments" json:"assigned_departments"`

	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (p *Profile) CanLogin() bool {
	return p.Active && p.PasswordHash != ""
}

// AuthContext builds the request actor from the stored profile. Scopes come
// from the role template, so a role change applies on the next request.
func (p *Profile) AuthContext() *kernel.AuthContext {
	id := p.ID
	return &kernel.AuthContext{
		UserID:              &id,
		Email:               p.Email,
		Name:                p.Name,
		Role:                p.Role,
		IsAdmin:             p.IsAdmin,
		Scopes:              scopes.ForRole(p.Role, p.IsAdmin),
		AssignedStates:      clean(p.AssignedStates),
		AssignedCities:      clean(p.AssignedCities),
		AssignedDepartments: clean(p.AssignedDepartments),
	}
}

// Apply updates the mutable fields present in req
func (p *Profile) Apply(req UpdateProfileRequest, now time.Time) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role, ok := kernel.ParseRole(*req.Role)
		if !ok {
			return ErrInvalidRole().WithDetail("role", *req.Role)
		}
		p.Role = role
	}
	if req.IsAdmin != nil {
		p.IsAdmin = *req.IsAdmin
	}
	if req.AssignedStates != nil {
		p.AssignedStates = clean(*req.AssignedStates)
	}
	if req.AssignedCities != nil {
		p.AssignedCities = clean(*req.AssignedCities)
	}
	if req.AssignedDepartments != nil {
		p.AssignedDepartments = clean(*req.AssignedDepartments)
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	p.UpdatedAt = now
	return nil
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// DTOs
// ============================================================================

type CreateProfileRequest struct {
	Email               string   `json:"email" validate:"required,email"`
	Name                string   `json:"name" validate:"required,min=2"`
	Role                string   `json:"role" validate:"required"`
	IsAdmin             bool     `json:"is_admin"`
	Password            string   `json:"password" validate:"required,min=8"`
	AssignedStates      []string `json:"assigned_states"`
	AssignedCities      []string `json:"assigned_cities"`
	AssignedDepartments []string `json:"assigned_departments"`
}

// UpdateProfileRequest only changes the fields that are set
type UpdateProfileRequest struct {
	Name                *string   `json:"name,omitempty" validate:"omitempty,min=2"`
	Role                *string   `json:"role,omitempty"`
	IsAdmin             *bool     `json:"is_admin,omitempty"`
	AssignedStates      *[]string `json:"assigned_states,omitempty"`
	AssignedCities      *[]string `json:"assigned_cities,omitempty"`
	AssignedDepartments *[]string `json:"assigned_departments,omitempty"`
	Active              *bool     `json:"active,omitempty"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type ProfileListResponse struct {
	Profiles []*Profile `json:"profiles"`
	Total    int        `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROFILE")

var (
	CodeProfileNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Usuário não encontrado")
	CodeAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Já existe um usuário com este e-mail")
	CodeInvalidRole     = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Perfil de acesso inválido")
	CodeWeakPassword    = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "A senha não atende ao tamanho mínimo")
	CodeInvalidCreds    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "E-mail ou senha inválidos")
	CodeInactive        = ErrRegistry.Register("INACTIVE", errx.TypeAuthorization, http.StatusUnauthorized, "Usuário desativado")
)

func ErrProfileNotFound() *errx.Error {
	return ErrRegistry.New(CodeProfileNotFound)
}

func ErrAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeAlreadyExists)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrWeakPassword() *errx.Error {
	return ErrRegistry.New(CodeWeakPassword)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCreds)
}

func ErrInactive() *errx.Error {
	return ErrRegistry.New(CodeInactive)
}

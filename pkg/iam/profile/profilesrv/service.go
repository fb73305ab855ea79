package profilesrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/validatex"
)

// ProfileService administra las cuentas de RH. Toda operación pasa por el
// gate; ninguna cuenta puede alterarse a sí misma salvo para leer.
type ProfileService struct {
	repo        profile.Repository
	passwordSvc profile.PasswordService
	gate        *authz.Gate
	clock       kernel.Clock
	minPassword int
}

func NewProfileService(
	repo profile.Repository,
	passwordSvc profile.PasswordService,
	gate *authz.Gate,
	clock kernel.Clock,
	minPassword int,
) *ProfileService {
	return &ProfileService{
		repo:        repo,
		passwordSvc: passwordSvc,
		gate:        gate,
		clock:       clock,
		minPassword: minPassword,
	}
}

// ============================================================================
// Authentication support
// ============================================================================

// Authenticate checks e-mail and password. Unknown e-mails, inactive accounts
// and wrong passwords are indistinguishable to the caller.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*profile.Profile, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errx.IsCode(err, profile.CodeProfileNotFound) {
			return nil, profile.ErrInvalidCredentials()
		}
		return nil, err
	}
	if !p.CanLogin() || !s.passwordSvc.VerifyPassword(p.PasswordHash, password) {
		return nil, profile.ErrInvalidCredentials()
	}
	return p, nil
}

// LoadActor rebuilds the request actor from the stored profile
func (s *ProfileService) LoadActor(ctx context.Context, id kernel.UserID) (*kernel.AuthContext, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, profile.ErrInactive().WithDetail("user_id", id.String())
	}
	return p.AuthContext(), nil
}

// EnsureAdmin creates the bootstrap admin when no profile exists yet
func (s *ProfileService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	p, err := s.build(profile.CreateProfileRequest{
		Email:    email,
		Name:     name,
		Role:     string(kernel.RoleAdmin),
		IsAdmin:  true,
		Password: password,
	})
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, *p); err != nil {
		return err
	}
	logx.WithFields(logx.Fields{"email": p.Email}).Info("👤 bootstrap admin created")
	return nil
}

// ============================================================================
// Administration
// ============================================================================

func (s *ProfileService) CreateProfile(ctx context.Context, actor *kernel.AuthContext, req profile.CreateProfileRequest) (*profile.Profile, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	if err := s.gate.Check(actor, authz.ActionUpdate, authz.Target{Kind: authz.KindProfile}); err != nil {
		return nil, err
	}

	p, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, *p); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"user_id": p.ID,
		"role":    p.Role,
		"actor":   actor.ActorID(),
	}).Info("profile created")
	return p, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, actor *kernel.AuthContext, id kernel.UserID) (*profile.Profile, error) {
	if err := s.gate.Check(actor, authz.ActionView, authz.ForProfile(id)); err != nil {
		// everyone may read their own profile
		if actor.ActorID() != id.String() {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProfileService) ListProfiles(ctx context.Context, actor *kernel.AuthContext) (*profile.ProfileListResponse, error) {
	if err := s.gate.CheckRole(actor, authz.ActionView, authz.KindProfile); err != nil {
		return nil, err
	}
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &profile.ProfileListResponse{Profiles: profiles, Total: len(profiles)}, nil
}

// UpdateProfile changes role, admin flag, assignments or activation. The
// change is visible on the holder's next request.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor *kernel.AuthContext, id kernel.UserID, req profile.UpdateProfileRequest) (*profile.Profile, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	if err := s.gate.Check(actor, authz.ActionUpdate, authz.ForProfile(id)); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(req, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, *p); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"user_id": id, "actor": actor.ActorID()}).Info("profile updated")
	return p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, actor *kernel.AuthContext, id kernel.UserID) error {
	if err := s.gate.Check(actor, authz.ActionDelete, authz.ForProfile(id)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logx.WithFields(logx.Fields{"user_id": id, "actor": actor.ActorID()}).Info("profile deleted")
	return nil
}

func (s *ProfileService) ResetPassword(ctx context.Context, actor *kernel.AuthContext, id kernel.UserID, req profile.ResetPasswordRequest) error {
	if err := validatex.Struct(req); err != nil {
		return err
	}
	if err := s.gate.Check(actor, authz.ActionResetPassword, authz.ForProfile(id)); err != nil {
		return err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	p.UpdatedAt = s.clock.Now()
	return s.repo.Save(ctx, *p)
}

// ============================================================================
// Internals
// ============================================================================

func (s *ProfileService) build(req profile.CreateProfileRequest) (*profile.Profile, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &profile.Profile{
		ID:           kernel.NewUserID(kernel.GenerateID()),
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		IsAdmin:      req.IsAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
	}
	if err := p.Apply(profile.UpdateProfileRequest{
		Role:                &req.Role,
		AssignedStates:      &req.AssignedStates,
		AssignedCities:      &req.AssignedCities,
		AssignedDepartments: &req.AssignedDepartments,
	}, now); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) hash(password string) (string, error) {
	if len(password) < s.minPassword {
		return "", profile.ErrWeakPassword().WithDetail("min_length", s.minPassword)
	}
	hash, err := s.passwordSvc.HashPassword(password)
	if err != nil {
		return "", errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}
	return hash, nil
}

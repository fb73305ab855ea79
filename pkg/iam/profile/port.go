package profile

import (
	"context"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
)

// Repository define el contrato para la persistencia de perfiles
type Repository interface {
	FindByID(ctx context.Context, id kernel.UserID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Save(ctx context.Context, p Profile) error
	Delete(ctx context.Context, id kernel.UserID) error
}

// PasswordService define el contrato para el manejo de contraseñas
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) bool
}

package config

import "time"

type AuthConfig struct {
	JWT       JWTConfig
	Cookie    CookieConfig
	Password  PasswordConfig
	Bootstrap BootstrapConfig
}

// BootstrapConfig seeds the first admin account when no profile exists
type BootstrapConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       []string
}

type CookieConfig struct {
	AccessTokenName string
	Domain          string
	Path            string
	Secure          bool
	HTTPOnly        bool
	SameSite        string
}

type PasswordConfig struct {
	BcryptCost int
	MinLength  int
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 8*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "recruitflow"),
			Audience:       getEnvStringSlice("JWT_AUDIENCE", []string{"recruitflow-api"}),
		},
		Cookie: CookieConfig{
			AccessTokenName: getEnv("COOKIE_ACCESS_TOKEN_NAME", "access_token"),
			Domain:          getEnv("COOKIE_DOMAIN", ""),
			Path:            getEnv("COOKIE_PATH", "/"),
			Secure:          getEnvBool("COOKIE_SECURE", false),
			HTTPOnly:        getEnvBool("COOKIE_HTTP_ONLY", true),
			SameSite:        getEnv("COOKIE_SAME_SITE", "Lax"),
		},
		Password: PasswordConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
			MinLength:  getEnvInt("PASSWORD_MIN_LENGTH", 8),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrador"),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
	}
}

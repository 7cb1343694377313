package models

const (
	RoleAdmin    = "Administrador"
	RoleEmployee = "Empleado"

	// DefaultDisplayName is shown when the user did not ask to be remembered.
	DefaultDisplayName = "Usuario"
)

// User is an account known to the backend.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is the backend answer to a successful login.
type LoginResponse struct {
	User User `json:"usuario"`
}

// Registration is the body of POST /api/auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

// Session is the immutable identity a workspace is bound to for its lifetime.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the session role unlocks admin-only views.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// DisplayName returns the remembered name or the generic fallback.
func (s Session) DisplayName() string {
	if s.Name == "" {
		return DefaultDisplayName
	}
	return s.Name
}

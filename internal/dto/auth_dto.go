package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistroRequest struct {
	Nombre   string `json:"nombre"   validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResumen struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type LoginResponse struct {
	Mensaje string         `json:"mensaje"`
	Token   string         `json:"token"`
	Usuario UsuarioResumen `json:"usuario"`
}

type UsuarioResponse struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}

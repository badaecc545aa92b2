package types

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectCreateRequest struct {
	InitialPrompt string `json:"initial_prompt" validate:"required"`
}

type ReviseRequest struct {
	Message string `json:"message" validate:"required"`
}

type SaveCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse carries a plain acknowledgment.
type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// loginFailedResponse is the 400 body for an unknown login email, including
// the null data field.
type loginFailedResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Error     string `json:"error"`
	Data      any    `json:"data"`
}

type principalClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type whoamiResponse struct {
	Username string          `json:"username"`
	Claims   principalClaims `json:"claims"`
}

package request

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=150"` // doubles as the initial username
}

type TokenRequest struct {
	Email            string `json:"email" validate:"required,email"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

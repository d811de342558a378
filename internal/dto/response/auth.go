package response

type CodeSentResponse struct {
	Email string `json:"email"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh,omitempty"`
}

package shared

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh is only set by servers that rotate refresh tokens.
type RefreshTokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreateCommentRequest struct {
	PostId   int    `json:"post"`
	Content  string `json:"content"`
	ParentId *int   `json:"parent"`
}

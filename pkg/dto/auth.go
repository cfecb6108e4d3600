package dto

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type SessionResponse struct {
	TokenResponse
	User       UserResponse `json:"user"`
	FirstLogin bool         `json:"first_login"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CurrentSessionResponse is the session as the client sees it after sign-in.
type CurrentSessionResponse struct {
	User   UserResponse   `json:"user"`
	Access AccessResponse `json:"access"`
}

package domain

// GoogleUserInfo is the externally verified profile returned by Google's
// userinfo endpoint / ID token claims.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

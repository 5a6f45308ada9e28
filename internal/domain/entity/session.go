package entity

// Session is the token pair returned by the identity provider.
type Session struct {
	UID          string `json:"uid"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

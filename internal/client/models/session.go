package models

// Session is the client-held proof of authentication plus a cached summary
// of the signed-in user.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
}

// IsZero reports whether the session carries no credential. A session
// without a credential must not be trusted for its cached user.
func (s Session) IsZero() bool {
	return s.AccessToken == ""
}

package auth

// Principal is the authenticated caller behind a verified access token.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

// Owns reports whether the caller is acting on their own account.
func (p Principal) Owns(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}

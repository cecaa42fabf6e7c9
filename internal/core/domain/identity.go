package domain

// Identity is the resolved caller extracted from a verified token. Ownership
// checks compare UserID values; the username is carried for logging only.
//
// The zero value is the anonymous identity: requests with a missing or
// invalid token proceed as anonymous and are rejected (or not) by the
// per-route authorization rules, never by the verifier itself.
type Identity struct {
	UserID   string
	Username string
	Role     string
	Admin    bool
}

// IsAnonymous reports whether no authenticated user backs this identity.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

package auth

import "github.com/qualifica/professor-rating-api/internal/repository"

// Principal is the identity attached to an inbound request. It is an
// explicit two-state value (anonymous or authenticated-as-user) so that
// call sites never juggle nil user pointers.
type Principal struct {
	authenticated bool
	user          repository.User
}

// Anonymous returns the principal for an unauthenticated request.
func Anonymous() Principal { return Principal{} }

// AuthenticatedAs returns the principal for a request made by u.
func AuthenticatedAs(u repository.User) Principal {
	return Principal{authenticated: true, user: u}
}

// IsAuthenticated reports whether a user identity is attached.
func (p Principal) IsAuthenticated() bool { return p.authenticated }

// IsAdmin reports whether the principal is an authenticated admin.
func (p Principal) IsAdmin() bool {
	return p.authenticated && p.user.Role == repository.RoleAdmin
}

// User returns the attached user and whether one is present.
func (p Principal) User() (repository.User, bool) {
	return p.user, p.authenticated
}

package service

import "rental-escrow-backend/internal/domain"

// Authorizer holds the privileged identity fixed at deployment.
type Authorizer struct {
	admin string
}

func NewAuthorizer(admin string) Authorizer {
	return Authorizer{admin: admin}
}

func (a Authorizer) IsAdmin(caller string) bool {
	return a.admin != "" && caller == a.admin
}

// RequireAdmin fails with OwnerOnly unless caller is the admin.
func (a Authorizer) RequireAdmin(caller string) error {
	if !a.IsAdmin(caller) {
		return domain.Errorf(domain.CodeOwnerOnly, "caller %q is not the platform admin", caller)
	}
	return nil
}

package identity

import (
	"context"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// Provider is the identity collaborator: a credential lookup against the
// user collection returning a role-tagged principal. Credentials are opaque
// strings compared verbatim; there is no hashing or token issuance.
type Provider struct {
	users repository.UserRepository
}

// NewProvider constructs a provider over the user repository.
func NewProvider(users repository.UserRepository) *Provider {
	return &Provider{users: users}
}

// Authenticate validates a username/password pair. A mismatch reports
// invalid credentials without distinguishing unknown user from wrong
// password.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	user, err := p.users.GetByUsername(ctx, username)
	if err != nil {
		if util.HasCode(err, util.CodeNotFound) {
			return domain.Principal{}, util.NewInvalidCredentials()
		}
		return domain.Principal{}, err
	}
	if user.Password != password {
		return domain.Principal{}, util.NewInvalidCredentials()
	}
	return user.Principal(), nil
}

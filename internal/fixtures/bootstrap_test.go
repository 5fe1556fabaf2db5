package fixtures

import (
	"context"
	"testing"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/company"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memCompanies struct {
	company.CompanyRepository
	created []string
}

func (m *memCompanies) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *memCompanies) Create(ctx context.Context, name string) (company.Company, error) {
	m.created = append(m.created, name)
	return company.Company{ID: "cmp-1", Name: name}, nil
}

type memUsers struct {
	user.UserRepository
	created []user.User
}

func (m *memUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "usr-1"
	m.created = append(m.created, u)
	return u, nil
}

func TestEnsureOwner(t *testing.T) {
	ctx := context.Background()
	companies := &memCompanies{}
	users := &memUsers{}
	owner := Owner{Email: " Owner@Fleet.test ", Password: "password123"}

	require.NoError(t, EnsureOwner(ctx, inlineTx{}, companies, users, owner))
	require.Len(t, users.created, 1)
	assert.Equal(t, "owner@fleet.test", users.created[0].Email)
	assert.Equal(t, user.RoleAdmin, users.created[0].Role)
	assert.Equal(t, "cmp-1", users.created[0].CompanyID)
	assert.Equal(t, []string{"My Fleet"}, companies.created)

	// second run is a no-op
	require.NoError(t, EnsureOwner(ctx, inlineTx{}, companies, users, owner))
	assert.Len(t, users.created, 1)
}

func TestEnsureOwner_Disabled(t *testing.T) {
	companies := &memCompanies{}
	users := &memUsers{}
	require.NoError(t, EnsureOwner(context.Background(), inlineTx{}, companies, users, Owner{}))
	assert.Empty(t, companies.created)
}

package user

import "context"

// AccountRepository reads and writes admin and employee accounts through one
// interface; the Ref type selects the backing collection.
type AccountRepository interface {
	GetByRef(ctx context.Context, ref Ref) (Account, error)
	GetByEmail(ctx context.Context, userType UserType, email string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	ListActive(ctx context.Context, userType UserType) ([]Account, error)
}

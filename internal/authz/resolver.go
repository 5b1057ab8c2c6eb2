package authz

import "context"

// Store supplies the role and permission name sets for a user. The postgres
// implementation lives in the role package; tests use in-memory fakes.
type Store interface {
	RolesForUser(ctx context.Context, userID int64) ([]string, error)
	PermissionsForUser(ctx context.Context, userID int64) ([]string, error)
}

// Resolver builds Actors from the store and memoizes them for its own
// lifetime. One resolver is created per request and discarded afterwards, so
// a role or permission mutation invalidates simply by the next request getting
// a fresh resolver. No locking: a resolver never crosses goroutines.
type Resolver struct {
	store Store
	cache map[int64]*Actor
}

func NewResolver(store Store) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[int64]*Actor),
	}
}

// Actor resolves the role and permission sets for userID. Repeated calls
// within one resolver lifetime return the same Actor.
func (r *Resolver) Actor(ctx context.Context, userID int64) (*Actor, error) {
	if a, ok := r.cache[userID]; ok {
		return a, nil
	}

	roles, err := r.store.RolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	permissions, err := r.store.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := &Actor{
		UserID:      userID,
		Roles:       roles,
		Permissions: permissions,
	}
	r.cache[userID] = a
	return a, nil
}

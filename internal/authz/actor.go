package authz

// Role names are fixed at seed time and referenced by the policies directly.
const (
	RoleAdmin         = "ADMIN"
	RoleChefEquipe    = "CHEF_EQUIPE"
	RoleCollaborateur = "COLLABORATEUR"
	RoleAssistant     = "ASSISTANT"
)

// Permission names. Flat capabilities with no hierarchy; each is independently
// grantable through a role bundle.
const (
	PermClientsView    = "clients.view"
	PermClientsEdit    = "clients.edit"
	PermPortfoliosView = "portfolios.view"
	PermPortfoliosEdit = "portfolios.edit"
	PermTasksManage    = "tasks.manage"
	PermTimeApprove    = "time.approve"
	PermRequestsView   = "requests.view"
	PermRequestsManage = "requests.manage"
	PermUsersRateSet   = "users.rate.set"
	PermExportsView    = "exports.view"
)

// Actor is the authenticated principal a decision is evaluated against: the
// user id plus the resolved role and permission name sets. A nil Actor denies
// every check, so unauthenticated callers fall through to deny without any
// special casing at the call sites.
type Actor struct {
	UserID      int64
	Roles       []string
	Permissions []string
}

func (a *Actor) HasRole(name string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (a *Actor) HasAnyRole(names ...string) bool {
	if a == nil {
		return false
	}
	for _, name := range names {
		if a.HasRole(name) {
			return true
		}
	}
	return false
}

// Can reports whether the actor holds the named permission. ADMIN is an
// unconditional before-gate: it grants every permission check regardless of
// what the role's explicit bundle contains.
func (a *Actor) Can(permission string) bool {
	if a == nil {
		return false
	}
	if a.HasRole(RoleAdmin) {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (a *Actor) CanAny(permissions ...string) bool {
	if a == nil {
		return false
	}
	for _, p := range permissions {
		if a.Can(p) {
			return true
		}
	}
	return false
}

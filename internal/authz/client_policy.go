package authz

// ClientPolicy decides access to clients. Every decision is a first-match-wins
// OR chain; when no clause grants, the answer is deny.
type ClientPolicy struct{}

func (ClientPolicy) ViewAny(a *Actor) bool {
	return a.Can(PermClientsView)
}

func (ClientPolicy) View(a *Actor, c ClientView) bool {
	if a.HasAnyRole(RoleAdmin, RoleChefEquipe) {
		return true
	}
	if a.Can(PermClientsView) {
		return true
	}
	return IsCollaboratorForClient(a, c)
}

func (ClientPolicy) Create(a *Actor) bool {
	return a.HasRole(RoleAdmin) || a.Can(PermClientsEdit)
}

func (ClientPolicy) Update(a *Actor, c ClientView) bool {
	if a.HasRole(RoleAdmin) {
		return true
	}
	if a.Can(PermClientsEdit) {
		return true
	}
	// A chef d'equipe may edit the clients they collaborate on, directly or
	// through the owning portfolio.
	return a.HasRole(RoleChefEquipe) && IsCollaboratorForClient(a, c)
}

func (ClientPolicy) Delete(a *Actor, _ ClientView) bool {
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

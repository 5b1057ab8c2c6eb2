package authz

// RequestPolicy decides access to client requests (demandes).
type RequestPolicy struct{}

func (RequestPolicy) ViewAny(a *Actor) bool {
	if a.CanAny(PermRequestsView, PermRequestsManage) {
		return true
	}
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe, RoleAssistant)
}

func (RequestPolicy) View(a *Actor, r RequestView) bool {
	return a.Can(PermRequestsManage) || isRequestCreator(a, r)
}

func (RequestPolicy) Create(a *Actor) bool {
	if a.Can(PermRequestsManage) {
		return true
	}
	return a.HasAnyRole(RoleAdmin, RoleAssistant, RoleChefEquipe)
}

func (RequestPolicy) Update(a *Actor, r RequestView) bool {
	return a.Can(PermRequestsManage) || isRequestCreator(a, r)
}

func (RequestPolicy) Delete(a *Actor, r RequestView) bool {
	return a.Can(PermRequestsManage) || isRequestCreator(a, r)
}

func isRequestCreator(a *Actor, r RequestView) bool {
	return a != nil && a.UserID == r.CreatedBy
}

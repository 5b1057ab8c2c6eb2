package authz

type PortfolioPolicy struct{}

func (PortfolioPolicy) ViewAny(a *Actor) bool {
	if a.HasAnyRole(RoleAdmin, RoleChefEquipe, RoleCollaborateur, RoleAssistant) {
		return true
	}
	return a.Can(PermPortfoliosView)
}

func (PortfolioPolicy) View(a *Actor, p PortfolioView) bool {
	if a.HasAnyRole(RoleAdmin, RoleChefEquipe) {
		return true
	}
	if a.Can(PermPortfoliosView) {
		return true
	}
	return IsCollaboratorForPortfolio(a, p)
}

func (PortfolioPolicy) Create(a *Actor) bool {
	return a.HasRole(RoleAdmin) || a.Can(PermPortfoliosEdit)
}

// Update does not honor collaboration, unlike ClientPolicy.Update. Being a
// collaborator on a portfolio grants view only.
func (PortfolioPolicy) Update(a *Actor, _ PortfolioView) bool {
	return a.HasRole(RoleAdmin) || a.Can(PermPortfoliosEdit)
}

func (PortfolioPolicy) Delete(a *Actor, _ PortfolioView) bool {
	return a.HasRole(RoleAdmin)
}

package authz

// Non-resource gates guarding the reporting surface.

// ViewReports grants access to productivity and cost summaries.
func ViewReports(a *Actor) bool {
	return a.Can(PermExportsView) || a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

// ExportTime grants the time CSV export. Narrower than ViewReports: chef
// d'equipe does not qualify without the explicit permission.
func ExportTime(a *Actor) bool {
	return a.Can(PermExportsView) || a.HasRole(RoleAdmin)
}

package authz

// Redaction predicates, consulted at serialization time by the resource
// services. Field redaction nulls a field in place; confidential documents are
// filtered out as whole rows instead.

// CanSeeContractAmount gates the client's montant_contrat field.
func CanSeeContractAmount(a *Actor) bool {
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

// CanSeeHourlyRate gates a user's hourly_rate_mad and its effective date.
func CanSeeHourlyRate(a *Actor) bool {
	if a.CanAny(PermUsersRateSet, PermExportsView) {
		return true
	}
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

// CanSeeConfidentialDocuments decides whether confidential client documents
// appear in listings and may be downloaded.
func CanSeeConfidentialDocuments(a *Actor) bool {
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

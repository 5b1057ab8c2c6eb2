package authz

type TimeEntryPolicy struct{}

func (TimeEntryPolicy) ViewAny(a *Actor) bool {
	return a.Can(PermTasksManage) || a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

func (TimeEntryPolicy) View(a *Actor, e TimeEntryView) bool {
	return isEntryLogger(a, e) || a.Can(PermTasksManage)
}

func (TimeEntryPolicy) Create(a *Actor) bool {
	if a.Can(PermTasksManage) {
		return true
	}
	return a.HasAnyRole(RoleCollaborateur, RoleAssistant)
}

func (TimeEntryPolicy) Update(a *Actor, e TimeEntryView) bool {
	return isEntryLogger(a, e) || a.Can(PermTasksManage)
}

func (TimeEntryPolicy) Delete(a *Actor, _ TimeEntryView) bool {
	return a.Can(PermTimeApprove) || a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

func isEntryLogger(a *Actor, e TimeEntryView) bool {
	return a != nil && a.UserID == e.UserID
}

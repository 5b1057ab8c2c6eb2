package authz

type TaskPolicy struct{}

func (TaskPolicy) ViewAny(a *Actor) bool {
	if a.Can(PermTasksManage) {
		return true
	}
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe, RoleCollaborateur)
}

func (TaskPolicy) View(a *Actor, t TaskView) bool {
	if a.Can(PermTasksManage) {
		return true
	}
	return isTaskOwner(a, t) || isTaskAssignee(a, t)
}

func (TaskPolicy) Create(a *Actor) bool {
	if a.HasAnyRole(RoleAdmin, RoleChefEquipe) {
		return true
	}
	return a.Can(PermTasksManage)
}

func (TaskPolicy) Update(a *Actor, t TaskView) bool {
	if a.HasAnyRole(RoleAdmin, RoleChefEquipe) {
		return true
	}
	if a.Can(PermTasksManage) {
		return true
	}
	return isTaskOwner(a, t)
}

func (TaskPolicy) Delete(a *Actor, _ TaskView) bool {
	return a.HasAnyRole(RoleAdmin, RoleChefEquipe)
}

// Assign controls changing the assignee set.
func (TaskPolicy) Assign(a *Actor, t TaskView) bool {
	return a.Can(PermTasksManage) || isTaskOwner(a, t)
}

// LogTime mirrors View: whoever may see a task may log time against it.
func (p TaskPolicy) LogTime(a *Actor, t TaskView) bool {
	return p.View(a, t)
}

func isTaskOwner(a *Actor, t TaskView) bool {
	if a == nil || t.OwnerID == nil {
		return false
	}
	return *t.OwnerID == a.UserID
}

func isTaskAssignee(a *Actor, t TaskView) bool {
	if a == nil {
		return false
	}
	return containsID(t.AssigneeIDs, a.UserID)
}

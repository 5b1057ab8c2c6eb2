package authz

// Resource views carry the relationship data a decision needs, preloaded by
// the calling service. The engine itself performs no I/O.

type PortfolioView struct {
	ID              int64
	CollaboratorIDs []int64
}

type ClientView struct {
	ID                       int64
	PortfolioID              int64
	CollaboratorIDs          []int64
	PortfolioCollaboratorIDs []int64
}

type TaskView struct {
	ID          int64
	ClientID    int64
	OwnerID     *int64
	AssigneeIDs []int64
}

type TimeEntryView struct {
	ID     int64
	TaskID int64
	UserID int64
}

type RequestView struct {
	ID        int64
	ClientID  int64
	CreatedBy int64
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// IsCollaboratorForPortfolio reports whether the actor is in the portfolio's
// collaborator set.
func IsCollaboratorForPortfolio(a *Actor, p PortfolioView) bool {
	if a == nil {
		return false
	}
	return containsID(p.CollaboratorIDs, a.UserID)
}

// IsCollaboratorForClient reports whether the actor is a direct collaborator
// of the client, or a collaborator of the client's owning portfolio. Either
// membership alone is sufficient.
func IsCollaboratorForClient(a *Actor, c ClientView) bool {
	if a == nil {
		return false
	}
	if containsID(c.CollaboratorIDs, a.UserID) {
		return true
	}
	return containsID(c.PortfolioCollaboratorIDs, a.UserID)
}

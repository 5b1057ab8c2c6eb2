package authz

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClientPolicy", func() {
	var policy ClientPolicy

	client := func(collabs, portfolioCollabs []int64) ClientView {
		return ClientView{
			ID:                       1,
			PortfolioID:              10,
			CollaboratorIDs:          collabs,
			PortfolioCollaboratorIDs: portfolioCollabs,
		}
	}

	Describe("ViewAny", func() {
		It("should require clients.view", func() {
			Expect(policy.ViewAny(actorWithPerms(1, PermClientsView))).To(BeTrue())
			Expect(policy.ViewAny(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
		})

		It("should grant admin through the before-gate", func() {
			Expect(policy.ViewAny(actorWithRoles(1, RoleAdmin))).To(BeTrue())
		})
	})

	Describe("View", func() {
		It("should grant admin and chef d'equipe", func() {
			Expect(policy.View(actorWithRoles(1, RoleAdmin), client(nil, nil))).To(BeTrue())
			Expect(policy.View(actorWithRoles(1, RoleChefEquipe), client(nil, nil))).To(BeTrue())
		})

		It("should grant a holder of clients.view", func() {
			Expect(policy.View(actorWithPerms(1, PermClientsView), client(nil, nil))).To(BeTrue())
		})

		It("should grant a collaborator without any permission", func() {
			a := actorWithRoles(7, RoleCollaborateur)
			Expect(policy.View(a, client([]int64{7}, nil))).To(BeTrue())
		})

		It("should deny an unrelated collaborateur", func() {
			a := actorWithRoles(7, RoleCollaborateur)
			Expect(policy.View(a, client([]int64{8}, []int64{9}))).To(BeFalse())
		})

		It("should deny an unauthenticated actor", func() {
			Expect(policy.View(nil, client([]int64{7}, nil))).To(BeFalse())
		})
	})

	Describe("Create", func() {
		It("should grant admin or clients.edit", func() {
			Expect(policy.Create(actorWithRoles(1, RoleAdmin))).To(BeTrue())
			Expect(policy.Create(actorWithPerms(1, PermClientsEdit))).To(BeTrue())
		})

		It("should deny a chef d'equipe without clients.edit", func() {
			Expect(policy.Create(actorWithRoles(1, RoleChefEquipe))).To(BeFalse())
		})
	})

	Describe("Update", func() {
		It("should grant a chef d'equipe collaborating on the client", func() {
			a := actorWithRoles(3, RoleChefEquipe)
			Expect(policy.Update(a, client([]int64{3}, nil))).To(BeTrue())
		})

		It("should grant a chef d'equipe collaborating through the portfolio", func() {
			a := actorWithRoles(3, RoleChefEquipe)
			Expect(policy.Update(a, client(nil, []int64{3}))).To(BeTrue())
		})

		It("should deny a chef d'equipe with no collaboration", func() {
			a := actorWithRoles(3, RoleChefEquipe)
			Expect(policy.Update(a, client(nil, nil))).To(BeFalse())
		})

		It("should deny a collaborateur even when collaborating", func() {
			a := actorWithRoles(3, RoleCollaborateur)
			Expect(policy.Update(a, client([]int64{3}, nil))).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should grant admin and chef only", func() {
			Expect(policy.Delete(actorWithRoles(1, RoleAdmin), client(nil, nil))).To(BeTrue())
			Expect(policy.Delete(actorWithRoles(1, RoleChefEquipe), client(nil, nil))).To(BeTrue())
			Expect(policy.Delete(actorWithPerms(1, PermClientsEdit), client(nil, nil))).To(BeFalse())
		})
	})
})

var _ = Describe("PortfolioPolicy", func() {
	var policy PortfolioPolicy

	portfolio := func(collabs ...int64) PortfolioView {
		return PortfolioView{ID: 2, CollaboratorIDs: collabs}
	}

	Describe("View", func() {
		It("should grant a collaborator", func() {
			a := actorWithRoles(4, RoleCollaborateur)
			Expect(policy.View(a, portfolio(4))).To(BeTrue())
		})

		It("should deny a non-collaborator without roles or permissions", func() {
			a := actorWithRoles(5, RoleCollaborateur)
			Expect(policy.View(a, portfolio(4))).To(BeFalse())
		})
	})

	Describe("Update", func() {
		It("should not honor collaboration, unlike clients", func() {
			a := actorWithRoles(4, RoleChefEquipe)
			Expect(policy.View(a, portfolio(4))).To(BeTrue())
			Expect(policy.Update(a, portfolio(4))).To(BeFalse())
		})

		It("should grant admin or portfolios.edit", func() {
			Expect(policy.Update(actorWithRoles(1, RoleAdmin), portfolio())).To(BeTrue())
			Expect(policy.Update(actorWithPerms(1, PermPortfoliosEdit), portfolio())).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should grant admin only", func() {
			Expect(policy.Delete(actorWithRoles(1, RoleAdmin), portfolio())).To(BeTrue())
			Expect(policy.Delete(actorWithRoles(1, RoleChefEquipe), portfolio())).To(BeFalse())
			Expect(policy.Delete(actorWithPerms(1, PermPortfoliosEdit), portfolio())).To(BeFalse())
		})
	})
})

var _ = Describe("TaskPolicy", func() {
	var policy TaskPolicy

	owned := func(ownerID int64, assignees ...int64) TaskView {
		return TaskView{ID: 5, ClientID: 1, OwnerID: &ownerID, AssigneeIDs: assignees}
	}

	Describe("View and LogTime", func() {
		It("should grant an assignee collaborateur", func() {
			a := actorWithRoles(9, RoleCollaborateur)
			t := owned(2, 9)
			Expect(policy.View(a, t)).To(BeTrue())
			Expect(policy.LogTime(a, t)).To(BeTrue())
		})

		It("should grant the owner", func() {
			a := actorWithRoles(2, RoleCollaborateur)
			Expect(policy.View(a, owned(2))).To(BeTrue())
		})

		It("should deny a collaborateur who is neither owner nor assignee", func() {
			a := actorWithRoles(9, RoleCollaborateur)
			t := owned(2, 3, 4)
			Expect(policy.View(a, t)).To(BeFalse())
			Expect(policy.LogTime(a, t)).To(BeFalse())
		})

		It("should grant tasks.manage regardless of relationship", func() {
			a := actorWithPerms(9, PermTasksManage)
			Expect(policy.View(a, owned(2))).To(BeTrue())
		})

		It("should handle a task without owner", func() {
			a := actorWithRoles(9, RoleCollaborateur)
			Expect(policy.View(a, TaskView{ID: 5, ClientID: 1})).To(BeFalse())
		})
	})

	Describe("Assign", func() {
		It("should grant the owner", func() {
			a := actorWithRoles(2, RoleCollaborateur)
			Expect(policy.Assign(a, owned(2))).To(BeTrue())
		})

		It("should grant tasks.manage", func() {
			a := actorWithPerms(9, PermTasksManage)
			Expect(policy.Assign(a, owned(2))).To(BeTrue())
		})

		It("should deny any other authenticated user", func() {
			a := actorWithRoles(9, RoleCollaborateur)
			Expect(policy.Assign(a, owned(2, 9))).To(BeFalse())
		})
	})

	Describe("Update", func() {
		It("should grant the owner but not an assignee", func() {
			Expect(policy.Update(actorWithRoles(2, RoleCollaborateur), owned(2))).To(BeTrue())
			Expect(policy.Update(actorWithRoles(9, RoleCollaborateur), owned(2, 9))).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should grant admin and chef only", func() {
			Expect(policy.Delete(actorWithRoles(1, RoleChefEquipe), owned(2))).To(BeTrue())
			Expect(policy.Delete(actorWithPerms(2, PermTasksManage), owned(2))).To(BeFalse())
		})
	})
})

var _ = Describe("TimeEntryPolicy", func() {
	var policy TimeEntryPolicy

	entry := TimeEntryView{ID: 11, TaskID: 5, UserID: 9}

	Describe("View and Update", func() {
		It("should grant the logging user", func() {
			a := actorWithRoles(9, RoleCollaborateur)
			Expect(policy.View(a, entry)).To(BeTrue())
			Expect(policy.Update(a, entry)).To(BeTrue())
		})

		It("should grant tasks.manage over foreign entries", func() {
			a := actorWithPerms(3, PermTasksManage)
			Expect(policy.View(a, entry)).To(BeTrue())
		})

		It("should deny another collaborateur", func() {
			a := actorWithRoles(3, RoleCollaborateur)
			Expect(policy.View(a, entry)).To(BeFalse())
		})
	})

	Describe("Create", func() {
		It("should grant collaborateur and assistant roles", func() {
			Expect(policy.Create(actorWithRoles(1, RoleCollaborateur))).To(BeTrue())
			Expect(policy.Create(actorWithRoles(1, RoleAssistant))).To(BeTrue())
		})

		It("should deny a role-less user without tasks.manage", func() {
			Expect(policy.Create(actorWithPerms(1, PermClientsView))).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should grant time.approve holders and admin/chef", func() {
			Expect(policy.Delete(actorWithPerms(1, PermTimeApprove), entry)).To(BeTrue())
			Expect(policy.Delete(actorWithRoles(1, RoleChefEquipe), entry)).To(BeTrue())
		})

		It("should deny the logging user themselves", func() {
			Expect(policy.Delete(actorWithRoles(9, RoleCollaborateur), entry)).To(BeFalse())
		})
	})
})

var _ = Describe("RequestPolicy", func() {
	var policy RequestPolicy

	req := RequestView{ID: 20, ClientID: 1, CreatedBy: 6}

	Describe("View / Update / Delete", func() {
		It("should grant the creator", func() {
			a := actorWithRoles(6, RoleCollaborateur)
			Expect(policy.View(a, req)).To(BeTrue())
			Expect(policy.Update(a, req)).To(BeTrue())
			Expect(policy.Delete(a, req)).To(BeTrue())
		})

		It("should grant requests.manage holders", func() {
			a := actorWithPerms(3, PermRequestsManage)
			Expect(policy.View(a, req)).To(BeTrue())
		})

		It("should deny a chef d'equipe who is not the creator", func() {
			a := actorWithRoles(3, RoleChefEquipe)
			Expect(policy.View(a, req)).To(BeFalse())
		})
	})

	Describe("Create", func() {
		It("should grant assistant and chef roles", func() {
			Expect(policy.Create(actorWithRoles(1, RoleAssistant))).To(BeTrue())
			Expect(policy.Create(actorWithRoles(1, RoleChefEquipe))).To(BeTrue())
		})

		It("should deny a plain collaborateur", func() {
			Expect(policy.Create(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
		})
	})
})

var _ = Describe("Gates", func() {
	Describe("ViewReports", func() {
		It("should grant exports.view or admin/chef", func() {
			Expect(ViewReports(actorWithPerms(1, PermExportsView))).To(BeTrue())
			Expect(ViewReports(actorWithRoles(1, RoleChefEquipe))).To(BeTrue())
			Expect(ViewReports(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
		})
	})

	Describe("ExportTime", func() {
		It("should exclude chef d'equipe without exports.view", func() {
			Expect(ExportTime(actorWithRoles(1, RoleAdmin))).To(BeTrue())
			Expect(ExportTime(actorWithPerms(1, PermExportsView))).To(BeTrue())
			Expect(ExportTime(actorWithRoles(1, RoleChefEquipe))).To(BeFalse())
		})
	})
})

var _ = Describe("Redaction predicates", func() {
	It("should reveal contract amounts to admin and chef only", func() {
		Expect(CanSeeContractAmount(actorWithRoles(1, RoleAdmin))).To(BeTrue())
		Expect(CanSeeContractAmount(actorWithRoles(1, RoleChefEquipe))).To(BeTrue())
		Expect(CanSeeContractAmount(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
		Expect(CanSeeContractAmount(nil)).To(BeFalse())
	})

	It("should reveal hourly rates behind the rate gate", func() {
		Expect(CanSeeHourlyRate(actorWithPerms(1, PermUsersRateSet))).To(BeTrue())
		Expect(CanSeeHourlyRate(actorWithPerms(1, PermExportsView))).To(BeTrue())
		Expect(CanSeeHourlyRate(actorWithRoles(1, RoleChefEquipe))).To(BeTrue())
		Expect(CanSeeHourlyRate(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
	})

	It("should hide confidential documents from non-privileged roles", func() {
		Expect(CanSeeConfidentialDocuments(actorWithRoles(1, RoleAdmin))).To(BeTrue())
		Expect(CanSeeConfidentialDocuments(actorWithRoles(1, RoleCollaborateur))).To(BeFalse())
		Expect(CanSeeConfidentialDocuments(actorWithRoles(1, RoleAssistant))).To(BeFalse())
	})
})

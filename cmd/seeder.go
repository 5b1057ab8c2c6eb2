package cmd

import (
	"fmt"
	"log"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, permissions and a default admin",
	Long:  `Seed the fixed role and permission catalog plus a default admin account for a fresh installation.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGormDB(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		seedCatalog(db)
		seedAdmin(db, cfg.Security.BCryptCost)
	},
}

var seedPermissions = []struct {
	Name string
	Desc string
}{
	{authz.PermClientsView, "View every client"},
	{authz.PermClientsEdit, "Edit every client"},
	{authz.PermPortfoliosView, "View every portfolio"},
	{authz.PermPortfoliosEdit, "Edit every portfolio"},
	{authz.PermTasksManage, "Manage all tasks"},
	{authz.PermTimeApprove, "Approve and correct time entries"},
	{authz.PermRequestsView, "View client requests"},
	{authz.PermRequestsManage, "Manage client requests"},
	{authz.PermUsersRateSet, "Set user hourly rates"},
	{authz.PermExportsView, "View and export reports"},
}

var seedRoles = []struct {
	Name    string
	Desc    string
	Permset []string
}{
	{authz.RoleAdmin, "Full administrator", allPermissionNames()},
	{authz.RoleChefEquipe, "Team lead over a portfolio", []string{
		authz.PermClientsView,
		authz.PermClientsEdit,
		authz.PermPortfoliosView,
		authz.PermPortfoliosEdit,
		authz.PermTasksManage,
		authz.PermTimeApprove,
		authz.PermRequestsView,
	}},
	{authz.RoleCollaborateur, "Accountant working assigned clients", nil},
	{authz.RoleAssistant, "Front-office assistant handling client requests", []string{
		authz.PermRequestsView,
	}},
}

func allPermissionNames() []string {
	names := make([]string, 0, len(seedPermissions))
	for _, p := range seedPermissions {
		names = append(names, p.Name)
	}
	return names
}

func seedCatalog(db *gorm.DB) {
	for _, p := range seedPermissions {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
			if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", p.Name, err)
			}
			fmt.Println("Seeded permission:", p.Name)
		}
	}

	for _, r := range seedRoles {
		var rid int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row().Scan(&rid); err != nil {
			if err := db.Exec("INSERT INTO roles (name, description, created_at) VALUES (?, ?, now())", r.Name, r.Desc).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", r.Name, err)
			}
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row().Scan(&rid); err != nil {
				log.Fatalf("role not found after insert %s: %v", r.Name, err)
			}
			fmt.Println("Seeded role:", r.Name)
		}

		for _, permName := range r.Permset {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found %s: %v", permName, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", rid, pid).Row().Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, now())", rid, pid).Error; err != nil {
				log.Fatalf("failed to bundle permission %s into role %s: %v", permName, r.Name, err)
			}
		}
	}

	fmt.Println("Role and permission catalog seeded")
}

func seedAdmin(db *gorm.DB, bcryptCost int) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	adminEmail := "admin@cabinet.ma"
	adminName := "Administrateur"

	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row().Scan(&exists); err == nil {
		fmt.Println("admin user already exists; will ensure role")
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte("changez-moi"), bcryptCost)
		if err != nil {
			log.Fatalf("failed to hash default admin password: %v", err)
		}
		if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", adminEmail, adminName, string(hash)).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		fmt.Println("Seeded admin user:", adminEmail)
	}

	var adminUserID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminUserID); err != nil {
		log.Fatalf("failed to lookup admin user id: %v", err)
	}

	var adminRoleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", authz.RoleAdmin).Row().Scan(&adminRoleID); err != nil {
		log.Fatalf("ADMIN role missing, run catalog seed first: %v", err)
	}

	if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminUserID, adminRoleID).Row().Scan(&exists); err == nil {
		return
	}

	if err := db.Exec("INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, now())", adminUserID, adminRoleID).Error; err != nil {
		log.Fatalf("failed to grant ADMIN role to admin user: %v", err)
	}

	fmt.Println("Granted ADMIN role to:", adminEmail)
}

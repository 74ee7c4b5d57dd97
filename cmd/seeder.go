package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with bootstrap data",
	Long:  `Seed the database with the built-in roles, permissions and the initial admin account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			tables := []string{
				"user_notices", "notifications", "notices",
				"role_permissions", "user_roles", "user_departments",
				"permissions", "roles", "departments", "users",
			}
			for _, t := range tables {
				if err := db.Exec("DELETE FROM " + t).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", t, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		roles := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"notice_admin", "can publish and curate notices"},
			{"user", "regular employee"},
		}
		for _, r := range roles {
			var id int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row().Scan(&id); err != nil {
				if err := db.Exec("INSERT INTO roles (name, description, created_at, updated_at) VALUES (?, ?, now(), now())", r.Name, r.Desc).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", r.Name, err)
				}
				fmt.Println("Seeded role:", r.Name)
			}
		}

		permissions := []struct {
			Name string
			Desc string
		}{
			{"user:manage", "Can manage user accounts"},
			{"role:manage", "Can manage roles and permissions"},
			{"department:manage", "Can manage departments"},
			{"notice:publish", "Can publish notices"},
			{"notice:manage", "Can edit, archive and delete notices"},
		}
		for _, p := range permissions {
			var id int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&id); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		var adminRoleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", "admin").Row().Scan(&adminRoleID); err != nil {
			log.Fatalf("failed to lookup admin role: %v", err)
		}

		for _, p := range permissions {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found after insert %s: %v", p.Name, err)
			}
			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", adminRoleID, pid).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", adminRoleID, pid).Error; err != nil {
				log.Fatalf("failed to grant permission %s to admin role: %v", p.Name, err)
			}
		}
		fmt.Println("Granted all permissions to admin role")

		var noticeAdminRoleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", "notice_admin").Row().Scan(&noticeAdminRoleID); err != nil {
			log.Fatalf("failed to lookup notice_admin role: %v", err)
		}
		for _, permName := range []string{"notice:publish", "notice:manage"} {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found %s: %v", permName, err)
			}
			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", noticeAdminRoleID, pid).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", noticeAdminRoleID, pid).Error; err != nil {
				log.Fatalf("failed to grant permission %s to notice_admin role: %v", permName, err)
			}
		}

		deptName := "General Affairs"
		var deptID int64
		if err := db.Raw("SELECT id FROM departments WHERE name = ?", deptName).Row().Scan(&deptID); err != nil {
			if err := db.Exec("INSERT INTO departments (name, parent_id, created_at, updated_at) VALUES (?, NULL, now(), now())", deptName).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", deptName, err)
			}
			if err := db.Raw("SELECT id FROM departments WHERE name = ?", deptName).Row().Scan(&deptID); err != nil {
				log.Fatalf("failed to lookup department id: %v", err)
			}
			fmt.Println("Seeded department:", deptName)
		}

		adminUsername := "admin"
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		var adminUserID int64
		if err := db.Raw("SELECT id FROM users WHERE username = ?", adminUsername).Row().Scan(&adminUserID); err != nil {
			if err := db.Exec("INSERT INTO users (username, display_name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
				adminUsername, "Administrator", "admin@example.com", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			if err := db.Raw("SELECT id FROM users WHERE username = ?", adminUsername).Row().Scan(&adminUserID); err != nil {
				log.Fatalf("failed to lookup admin user id: %v", err)
			}
			fmt.Println("Seeded admin user:", adminUsername)
		} else {
			fmt.Println("admin user already exists; will ensure role links")
		}

		var linkExists int
		if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminUserID, adminRoleID).Row().Scan(&linkExists); err != nil {
			if err := db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", adminUserID, adminRoleID).Error; err != nil {
				log.Fatalf("failed to link admin user to admin role: %v", err)
			}
		}

		var deptLinkExists int
		if err := db.Raw("SELECT 1 FROM user_departments WHERE user_id = ? AND department_id = ?", adminUserID, deptID).Row().Scan(&deptLinkExists); err != nil {
			if err := db.Exec("INSERT INTO user_departments (user_id, department_id) VALUES (?, ?)", adminUserID, deptID).Error; err != nil {
				log.Fatalf("failed to link admin user to department: %v", err)
			}
		}

		fmt.Println("Seeding complete")
	},
}

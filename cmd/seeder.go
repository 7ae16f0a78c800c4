package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedClear bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account and a sample employee for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if seedClear {
			for _, table := range []string{"audit_logs", "time_entries", "requests", "refresh_tokens", "employees", "user_roles", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password1"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		adminID := seedUser(db, "admin@ems.local", "Ada", "Admin", string(hash),
			[]string{userDatamodel.RoleAdmin, userDatamodel.RoleHR})
		employeeUserID := seedUser(db, "employee@ems.local", "Evan", "Employee", string(hash),
			[]string{userDatamodel.RoleEmployee})

		seedEmployee(db, employeeUserID, "EMP-0001", "Engineering", "Software Engineer")

		fmt.Println("Seeded admin user:", "admin@ems.local", adminID)
		fmt.Println("Seeded sample employee:", "employee@ems.local", employeeUserID)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "Clear existing data before seeding")
}

func seedUser(db *gorm.DB, email, firstName, lastName, passwordHash string, roles []string) string {
	var existing userDatamodel.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Println("user already exists:", email)
		return existing.ID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up user %s: %v", email, err)
	}

	now := time.Now()
	user := userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	for _, role := range roles {
		userRole := userDatamodel.UserRole{UserID: user.ID, Role: role, CreatedAt: now}
		if err := db.Create(&userRole).Error; err != nil {
			log.Fatalf("failed to assign role %s to %s: %v", role, email, err)
		}
	}

	return user.ID
}

func seedEmployee(db *gorm.DB, userID, code, department, jobTitle string) {
	var existing employeeDatamodel.Employee
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		fmt.Println("employee profile already exists:", code)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up employee %s: %v", code, err)
	}

	now := time.Now()
	hireDate := now.AddDate(0, -1, 0)
	emp := employeeDatamodel.Employee{
		ID:           uuid.NewString(),
		UserID:       userID,
		EmployeeCode: code,
		Department:   &department,
		JobTitle:     &jobTitle,
		Status:       employeeDatamodel.StatusActive,
		HireDate:     &hireDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&emp).Error; err != nil {
		log.Fatalf("failed to insert employee %s: %v", code, err)
	}
}

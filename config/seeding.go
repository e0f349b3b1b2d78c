package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
)

// SeedAdminUser creates the initial admin account if no admin exists yet.
// Safe to run on every startup.
func SeedAdminUser() {
	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		log.Printf("Warning: could not check for admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	// Default password (should be changed on first login)
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Welcome@123"
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Admin",
		Email:        "admin@sweep.local",
		Phone:        "9999999999",
		PasswordHash: string(passwordHash),
		Role:         "admin",
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		if err != gorm.ErrDuplicatedKey {
			log.Printf("Warning: could not seed admin user: %v", err)
		}
		return
	}
	log.Println("Seeded default admin user (change the password!)")
}

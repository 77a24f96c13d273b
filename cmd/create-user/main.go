package main

import (
	"bufio"
	"fmt"
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"log"
	"os"
	"strings"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.LawyerProfile{}, &models.APIToken{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Printf("Role (%s/%s/%s): ", models.RoleAdmin, models.RoleLawyer, models.RoleClient)
	role, _ := reader.ReadString('\n')
	role = strings.TrimSpace(role)

	// Validate inputs
	if name == "" || email == "" {
		log.Fatal("Name and email are required")
	}
	if !models.IsValidRole(role) {
		log.Fatalf("Unknown role %q", role)
	}

	// Check if user already exists
	var existingUser models.User
	if err := db.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		IsActive: true,
	}

	if err := db.DB.Create(user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	// Lawyers need a profile before they can be assigned cases
	if user.IsLawyer() {
		fmt.Print("License number: ")
		license, _ := reader.ReadString('\n')
		license = strings.TrimSpace(license)

		profile := &models.LawyerProfile{
			UserID:        user.ID,
			LicenseNumber: license,
		}
		if err := db.DB.Create(profile).Error; err != nil {
			log.Fatalf("Failed to create lawyer profile: %v", err)
		}
	}

	token, err := services.IssueAPIToken(db.DB, user.ID, "initial")
	if err != nil {
		log.Fatalf("Failed to issue API token: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	fmt.Println()
	fmt.Println("API token (shown once, store it securely):")
	fmt.Printf("  %s\n", token)
}

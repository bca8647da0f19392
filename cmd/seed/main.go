package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookfair/internal/shared/config"
	"bookfair/internal/shared/database"
	"bookfair/internal/stalls"
	"bookfair/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Book Fair Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"reservation_stalls",
		"reservations",
		"stalls",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedStalls(); err != nil {
		return fmt.Errorf("failed to seed stalls: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 staff account and 4 vendor accounts
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key          string
		firstName    string
		lastName     string
		businessName string
		email        string
		role         users.Role
	}{
		{"staff", "Fair", "Admin", "", "staff@bookfair.com", users.RoleStaff},
		{"vendor1", "John", "Smith", "Smith Rare Books", "john.smith@example.com", users.RoleVendor},
		{"vendor2", "Jane", "Johnson", "Johnson Press", "jane.johnson@example.com", users.RoleVendor},
		{"vendor3", "Mike", "Williams", "Williams & Sons Publishing", "mike.williams@example.com", users.RoleVendor},
		{"vendor4", "Sarah", "Brown", "", "sarah.brown@example.com", users.RoleVendor},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:           uuid.New(),
			FirstName:    userData.firstName,
			LastName:     userData.lastName,
			BusinessName: userData.businessName,
			Email:        userData.email,
			Password:     string(hashedPassword),
			Role:         userData.role,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedStalls creates 30 stalls across the fair floor, cycling sizes and
// locations the way the floor plan lays them out
func (s *Seeder) SeedStalls() error {
	fmt.Println("  🏪 Seeding stalls...")

	sizes := []stalls.Size{stalls.SizeSmall, stalls.SizeMedium, stalls.SizeLarge}
	locations := []string{"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3", "D1", "D2", "D3"}
	descriptions := []string{
		"Prime location near entrance",
		"Corner stall with extra visibility",
		"Central location with high traffic",
		"Quiet area for focused business",
		"Near food court and amenities",
	}

	for i := 0; i < 30; i++ {
		size := sizes[i%len(sizes)]

		var price float64
		switch size {
		case stalls.SizeSmall:
			price = 100.0
		case stalls.SizeMedium:
			price = 200.0
		case stalls.SizeLarge:
			price = 300.0
		}

		stall := stalls.Stall{
			ID:          uuid.New(),
			StallNumber: fmt.Sprintf("ST-%03d", i+1),
			StallName:   fmt.Sprintf("Stall %d", i+1),
			Size:        size,
			Location:    fmt.Sprintf("%s%d", locations[i%len(locations)], i/len(locations)+1),
			Description: descriptions[i%len(descriptions)],
			Price:       price,
			Status:      stalls.StatusAvailable,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&stall).Error; err != nil {
			return fmt.Errorf("failed to create stall %s: %w", stall.StallNumber, err)
		}
	}
	fmt.Println("    ✅ Created 30 stalls")

	return nil
}

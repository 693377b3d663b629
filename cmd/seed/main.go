package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"readverse/pkg/config"
	"readverse/pkg/database"
	"readverse/pkg/jwt"
	"readverse/pkg/logger"
	"readverse/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	username string
	role     models.UserRole
	vipDays  int
	coins    int
	penName  string
}

var testUsers = []seedUser{
	{email: "admin@test.com", username: "admin", role: models.RoleAdmin, coins: 0},
	{email: "alice@test.com", username: "alice_reads", role: models.RoleUser, coins: 1000},
	{email: "bob@test.com", username: "bob_reads", role: models.RoleUser, coins: 40},
	{email: "vera@test.com", username: "vera_vip", role: models.RoleVIP, vipDays: 30, coins: 200},
	{email: "quill@test.com", username: "quill_writes", role: models.RoleAuthor, coins: 150, penName: "Quill"},
}

func main() {
	var (
		chapters = flag.Int("chapters", 12, "chapters per seeded story")
		password = flag.String("password", "password123", "password for every seeded user")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New().With("tool", "seed")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	userIDs, err := seedUsers(db, *password, log)
	if err != nil {
		log.Error("Failed to seed users: %v", err)
		panic(err)
	}

	authorID := userIDs["quill_writes"]
	if err := seedStory(db, &authorID, "The Lantern Keeper", *chapters, log); err != nil {
		log.Error("Failed to seed story: %v", err)
		panic(err)
	}
	// Orphaned stories exist in production data; donations to them are rejected
	if err := seedStory(db, nil, "Untitled Draft", 2, log); err != nil {
		log.Error("Failed to seed story: %v", err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	for _, u := range testUsers {
		token, err := jwtService.GenerateToken(userIDs[u.username], string(u.role))
		if err != nil {
			log.Error("Failed to issue token for %s: %v", u.username, err)
			continue
		}
		fmt.Printf("%-14s %-7s Bearer %s\n", u.username, u.role, token)
	}

	log.Info("Database seeded successfully!")
}

func seedUsers(db *gorm.DB, password string, log *logger.Logger) (map[string]string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userIDs := make(map[string]string, len(testUsers))
	for _, data := range testUsers {
		var existing models.User
		err := db.Where("email = ? OR username = ?", data.email, data.username).First(&existing).Error
		if err == nil {
			log.Info("User %s already exists, skipping", data.username)
			userIDs[data.username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user := &models.User{
			Email:    data.email,
			Username: data.username,
			Password: string(hashedPassword),
			Role:     data.role,
			IsActive: true,
		}
		if data.vipDays > 0 {
			until := time.Now().AddDate(0, 0, data.vipDays)
			user.VIPUntil = &until
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", data.username, err)
			}
			if data.penName != "" {
				if err := tx.Create(&models.AuthorProfile{UserID: user.ID, PenName: data.penName}).Error; err != nil {
					return fmt.Errorf("failed to create author profile: %w", err)
				}
			}
			return tx.Exec(
				`INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES (?, ?, NOW(), NOW())
				 ON CONFLICT (user_id) DO NOTHING`,
				user.ID, data.coins,
			).Error
		})
		if err != nil {
			return nil, err
		}

		log.Info("Created %s %s (%s) with %d coins", data.role, data.username, data.email, data.coins)
		userIDs[data.username] = user.ID
	}
	return userIDs, nil
}

func seedStory(db *gorm.DB, authorID *string, title string, chapterCount int, log *logger.Logger) error {
	var existing models.Story
	if err := db.Where("title = ?", title).First(&existing).Error; err == nil {
		log.Info("Story %q already exists, skipping", title)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		story := &models.Story{AuthorID: authorID, Title: title, Synopsis: "Seeded for local development."}
		if err := tx.Create(story).Error; err != nil {
			return fmt.Errorf("failed to create story: %w", err)
		}

		for i := 1; i <= chapterCount; i++ {
			chapter := &models.Chapter{
				StoryID: story.ID,
				Number:  i,
				Title:   fmt.Sprintf("Chapter %d", i),
				Content: fmt.Sprintf("%s, chapter %d.", title, i),
			}
			if err := tx.Create(chapter).Error; err != nil {
				return fmt.Errorf("failed to create chapter %d: %w", i, err)
			}
		}

		log.Info("Created story %q (%s) with %d chapters", title, story.ID, chapterCount)
		return nil
	})
}

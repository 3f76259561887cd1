// Package main seeds the database with the fixture accounts and groups used
// in development, plus an optional batch of generated filler users.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/jonesmarquelle/messenger/internal/config"
	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/models"
	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/services"
)

type seedUser struct {
	name     string
	password string
	avatar   string
}

var fixtureUsers = []seedUser{
	{"testUserA", "passwordA", "https://thisisrnb.com/wp-content/uploads/2016/08/Frank-Ocean-green-hair.png"},
	{"testUserB", "passwordB", "https://github.com/bbenip.png"},
	{"Megan Thee Stallion", "passwordC", "https://i.imgur.com/AyJvxZ4.png"},
}

func main() {
	fakeUsers := flag.Int("fake", 0, "number of generated filler users to add")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	users := make([]*models.User, 0, len(fixtureUsers))
	for _, su := range fixtureUsers {
		user, err := ensureUser(ctx, userRepo, su, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("failed to seed user %q: %v", su.name, err)
		}
		users = append(users, user)
	}

	trade := &models.Group{Name: "Trade", IconURL: ptr("https://github.com/bbenip.png")}
	if err := groupRepo.Create(ctx, trade, users[0].ID); err != nil {
		log.Fatalf("failed to seed group %q: %v", trade.Name, err)
	}
	for _, u := range users[1:] {
		if err := groupRepo.AddMember(ctx, trade.ID, u.ID); err != nil {
			log.Fatalf("failed to add %q to %q: %v", u.Name, trade.Name, err)
		}
	}

	baddies := &models.Group{Name: "Baddies Inc.", IconURL: ptr("https://i.imgur.com/AyJvxZ4.png")}
	if err := groupRepo.Create(ctx, baddies, users[0].ID); err != nil {
		log.Fatalf("failed to seed group %q: %v", baddies.Name, err)
	}
	if err := groupRepo.AddMember(ctx, baddies.ID, users[2].ID); err != nil {
		log.Fatalf("failed to add %q to %q: %v", users[2].Name, baddies.Name, err)
	}

	fixtureMessages := []struct {
		group  *models.Group
		sender *models.User
		body   string
	}{
		{trade, users[0], "Let me in!"},
		{trade, users[1], "Let me out!"},
		{baddies, users[2], "Ah"},
	}
	for _, fm := range fixtureMessages {
		msg := &models.Message{GroupID: fm.group.ID, UserID: fm.sender.ID, Body: fm.body}
		if err := messageRepo.Create(ctx, msg); err != nil {
			log.Fatalf("failed to seed message in %q: %v", fm.group.Name, err)
		}
	}

	groupIDs := []int{trade.ID, baddies.ID}
	for i := 0; i < *fakeUsers; i++ {
		hash, err := services.HashPassword(gofakeit.Password(true, true, true, false, false, 12), cfg.BcryptCost)
		if err != nil {
			log.Fatalf("failed to hash generated password: %v", err)
		}

		user := &models.User{
			Name:         gofakeit.Username(),
			AvatarURL:    ptr(gofakeit.ImageURL(128, 128)),
			PasswordHash: hash,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("failed to create generated user: %v", err)
		}

		groupID := lo.Sample(groupIDs)
		if err := groupRepo.AddMember(ctx, groupID, user.ID); err != nil {
			log.Fatalf("failed to add generated user to group %d: %v", groupID, err)
		}
	}

	log.Printf("seed complete: %d fixture users, 2 groups, %d generated users", len(users), *fakeUsers)
}

// ensureUser creates the fixture account or returns the existing one, so the
// seeder can be re-run against a populated database.
func ensureUser(ctx context.Context, repo *repository.UserRepository, su seedUser, cost int) (*models.User, error) {
	if existing, err := repo.FindByName(ctx, su.name); err == nil {
		return existing, nil
	}

	hash, err := services.HashPassword(su.password, cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         su.name,
		PasswordHash: hash,
		AvatarURL:    ptr(su.avatar),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ptr(s string) *string {
	return &s
}

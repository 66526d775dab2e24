// Command seed inserts demo users into the local DynamoDB instance so the
// auth flows can be exercised against LocalStack during development.
package main

import (
	"context"
	"log"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/config"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/dynamo"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/id"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	client := dynamo.NewClient(cfg)
	ctx := context.Background()
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

	users := dynamo.NewUserRepo(client, cfg.DynamoTables.Users)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	phone := "+15550100"
	verifiedAt := time.Now().UTC().Add(-24 * time.Hour)
	now := time.Now().UTC()

	seed := []*domain.User{
		{
			UserID:          id.New(),
			Name:            "Demo Client",
			Email:           "client@eventio.test",
			Phone:           &phone,
			PasswordHash:    string(hash),
			Role:            domain.RoleClient,
			EmailVerifiedAt: &verifiedAt,
			PhoneConfirmed:  true,
			Enable:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			UserID:       id.New(),
			Name:         "Demo Provider",
			Email:        "provider@eventio.test",
			PasswordHash: string(hash),
			Role:         domain.RoleProvider,
			Enable:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for _, u := range seed {
		if err := users.Put(ctx, u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
		log.Printf("seeded %s (%s) id=%s", u.Email, u.Role, u.UserID)
	}
}

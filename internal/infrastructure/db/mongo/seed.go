package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// Seed populates the sample users and accounts used by the lab exercises.
// It runs only against an empty users collection so restarts keep whatever
// state the exercises produced. Passwords are weak on purpose; they are
// lesson fixtures, not credentials.
func Seed(ctx context.Context, db *mongo.Database) error {
	users := NewUserRepository(db)
	accounts := NewAccountRepository(db)

	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	alice, err := seedUser(ctx, users, "alice", "alice123", "alice@cydea.tech", domain.RoleUser, false)
	if err != nil {
		return err
	}
	bob, err := seedUser(ctx, users, "bob", "bob123", "bob@cydea.tech", domain.RoleAdmin, true)
	if err != nil {
		return err
	}

	seedAccounts := []*domain.Account{
		{OwnerUserID: alice.ID, IBAN: "PK00-ALICE", Balance: 1000.0},
		{OwnerUserID: bob.ID, IBAN: "PK00-BOB", Balance: 5000.0},
	}
	for _, a := range seedAccounts {
		if _, err := accounts.Create(ctx, a); err != nil {
			return fmt.Errorf("seed account %s: %w", a.IBAN, err)
		}
	}
	return nil
}

func seedUser(ctx context.Context, users *UserRepository, username, password, email, role string, admin bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	created, err := users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Role:         role,
		Admin:        admin,
	})
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	return created, nil
}

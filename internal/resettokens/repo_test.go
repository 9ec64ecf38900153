package resettokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/security"
)

func setupTokensTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:resettokens_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS password_reset_tokens (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  token_hash TEXT NOT NULL UNIQUE,
  expires_at DATETIME NOT NULL,
  used INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestConsumeValidToken(t *testing.T) {
	repo := NewRepository(setupTokensTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	raw, err := security.GenerateResetToken(32)
	require.NoError(t, err)
	hash := security.HashResetToken(raw)

	_, err = repo.Create(ctx, "ana@example.com", hash, now.Add(30*time.Minute))
	require.NoError(t, err)

	token, err := repo.Consume(ctx, hash, now)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if token.Email != "ana@example.com" {
		t.Fatalf("unexpected email %q", token.Email)
	}
	if !token.Used {
		t.Fatal("consumed token must be marked used")
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	repo := NewRepository(setupTokensTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	hash := security.HashResetToken("raw-token")
	_, err := repo.Create(ctx, "ana@example.com", hash, now.Add(time.Hour))
	require.NoError(t, err)

	if _, err := repo.Consume(ctx, hash, now); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if _, err := repo.Consume(ctx, hash, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second consume must fail with not found, got %v", err)
	}
}

func TestConsumeExpiredToken(t *testing.T) {
	repo := NewRepository(setupTokensTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	hash := security.HashResetToken("expired-token")
	_, err := repo.Create(ctx, "ana@example.com", hash, now.Add(-time.Minute))
	require.NoError(t, err)

	if _, err := repo.Consume(ctx, hash, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expired token must fail with not found, got %v", err)
	}
}

func TestConsumeUnknownToken(t *testing.T) {
	repo := NewRepository(setupTokensTestDB(t))

	_, err := repo.Consume(context.Background(), security.HashResetToken("never-issued"), time.Now().UTC())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown token must fail with not found, got %v", err)
	}
}

func TestConsumeConcurrentSingleWinner(t *testing.T) {
	db := setupTokensTestDB(t)
	// sqlite allows one writer; a single pooled connection keeps the
	// contending goroutines from tripping over lock errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	hash := security.HashResetToken("contested-token")
	_, err = repo.Create(ctx, "ana@example.com", hash, now.Add(time.Hour))
	require.NoError(t, err)

	const attempts = 8
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := repo.Consume(ctx, hash, now)
			results <- err
		}()
	}

	var wins int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			wins++
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo := NewRepository(setupTokensTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, "a@example.com", security.HashResetToken("t1"), now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "b@example.com", security.HashResetToken("t2"), now.Add(time.Hour))
	require.NoError(t, err)

	pruned, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned token, got %d", pruned)
	}

	if _, err := repo.Consume(ctx, security.HashResetToken("t2"), now); err != nil {
		t.Fatalf("live token must survive pruning: %v", err)
	}
}

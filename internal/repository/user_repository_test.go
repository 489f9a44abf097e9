package repository

import (
	"context"
	"testing"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/store"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(store.NewMemoryStore())
	ctx := context.Background()

	user := domain.User{Username: "jdoe", Password: "password", Name: "Jane Doe", Role: domain.RoleTeacher}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByUsername(ctx, "jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if got != user {
		t.Fatalf("got %+v", got)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	t.Run("duplicate username rejected", func(t *testing.T) {
		if err := repo.Create(ctx, user); !util.HasCode(err, util.CodeDuplicateKey) {
			t.Fatalf("expected DUPLICATE_KEY, got %v", err)
		}
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		if _, err := repo.GetByUsername(ctx, "JDOE"); !util.HasCode(err, util.CodeNotFound) {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
		// And so is the collision check.
		other := user
		other.Username = "JDoe"
		if err := repo.Create(ctx, other); err != nil {
			t.Fatalf("differently-cased username should insert: %v", err)
		}
	})
}

package service

import (
	"context"
	"testing"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/internal/store"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	records := store.NewMemoryStore()
	if err := records.SetUsers(context.Background(), []domain.User{
		{Username: "jdoe", Password: "password", Name: "Jane Doe", Role: domain.RoleTeacher},
		{Username: "admin1", Password: "password", Name: "Sam Ortiz", Role: domain.RoleAdmin},
	}); err != nil {
		t.Fatal(err)
	}
	return NewUserService(repository.NewUserRepository(records))
}

func TestUserCreate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, adminSam, CreateUserInput{
		Username: "mlee", Password: "secret", Name: "Morgan Lee", Role: domain.RoleTeacher,
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "mlee" || user.Role != domain.RoleTeacher {
		t.Fatalf("user = %+v", user)
	}

	if _, err := svc.users.GetByUsername(ctx, "mlee"); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
}

func TestUserCreate_Guards(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	valid := CreateUserInput{Username: "new", Password: "pw", Name: "New User", Role: domain.RoleTeacher}

	t.Run("non-admin actor", func(t *testing.T) {
		if _, err := svc.Create(ctx, teacherJdoe, valid); !util.HasCode(err, util.CodeUnauthorized) {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		in := valid
		in.Password = ""
		in.Name = " "
		if _, err := svc.Create(ctx, adminSam, in); !util.HasCode(err, util.CodeValidationFailed) {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		in := valid
		in.Role = "superadmin"
		if _, err := svc.Create(ctx, adminSam, in); !util.HasCode(err, util.CodeValidationFailed) {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		in := valid
		in.Username = "jdoe"
		if _, err := svc.Create(ctx, adminSam, in); !util.HasCode(err, util.CodeDuplicateKey) {
			t.Fatalf("expected DUPLICATE_KEY, got %v", err)
		}
	})
}

func TestUserList_NeverLeaksCredentials(t *testing.T) {
	svc := newUserService(t)

	principals, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(principals) != 2 {
		t.Fatalf("got %d principals", len(principals))
	}
	for _, p := range principals {
		if p.Username == "" || p.Role == "" {
			t.Fatalf("principal = %+v", p)
		}
	}
}

func TestAdmins(t *testing.T) {
	svc := newUserService(t)

	admins, err := svc.Admins(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || admins[0].Username != "admin1" {
		t.Fatalf("admins = %+v", admins)
	}
}

package service

import (
	"errors"
	"testing"
)

func TestAuthenticateChecksHashAndActivity(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	created, err := svc.Create(UserInput{
		Username: "editor",
		Password: "s3cret-pass",
		Role:     "EDITOR",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Authenticate("editor", "s3cret-pass"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if _, err := svc.Authenticate("editor", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Update(created.ID, UserInput{Role: "EDITOR", IsActive: false}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := svc.Authenticate("editor", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("inactive account must not log in, got %v", err)
	}
}

func TestCreateRejectsUnknownRoleAndDuplicates(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	if _, err := svc.Create(UserInput{Username: "a", Password: "p", Role: "OVERLORD"}); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("expected ErrRoleInvalid, got %v", err)
	}

	if _, err := svc.Create(UserInput{Username: "a", Password: "p", Role: "VIEWER", IsActive: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(UserInput{Username: "a", Password: "p", Role: "VIEWER"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLastSuperAdminIsProtected(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	admin, err := svc.Create(UserInput{
		Username: "root",
		Password: "rootpass",
		Role:     "SUPER_ADMIN",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(admin.ID, UserInput{Role: "ADMIN", IsActive: true}); !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("demoting the last super admin must fail, got %v", err)
	}
	if err := svc.Delete(admin.ID); !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("deleting the last super admin must fail, got %v", err)
	}

	second, err := svc.Create(UserInput{
		Username: "root2",
		Password: "rootpass",
		Role:     "SUPER_ADMIN",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(second.ID); err != nil {
		t.Fatalf("deleting a redundant super admin must work: %v", err)
	}
}

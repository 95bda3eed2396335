package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/wisnuvb/calmsey/internal/db"
)

func newTestContactService(t *testing.T) *ContactService {
	t.Helper()
	gdb := setupServiceTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewContactService(gdb, nil, nil, logger, 3, 24*time.Hour)
}

func validSubmission() SubmissionInput {
	return SubmissionInput{
		Name:    "Jane Visitor",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "I would like to learn more about your funds.",
	}
}

func TestSubmitStoresValidSubmission(t *testing.T) {
	svc := newTestContactService(t)

	stored, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if stored.Status != db.ContactStatusUnread {
		t.Fatalf("expected UNREAD status, got %s", stored.Status)
	}
	if stored.Email != "jane@example.com" {
		t.Fatalf("unexpected email %q", stored.Email)
	}
}

func TestSubmitRejectsShortMessageNamingConstraint(t *testing.T) {
	svc := newTestContactService(t)

	input := validSubmission()
	input.Message = "too short"

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	found := false
	for _, detail := range verr.Details {
		if strings.Contains(detail, "10 characters") {
			found = true
		}
	}
	if !found {
		t.Fatalf("error must name the length constraint, got %v", verr.Details)
	}
}

func TestSubmitCollectsEveryFieldViolation(t *testing.T) {
	svc := newTestContactService(t)

	_, err := svc.Submit(context.Background(), SubmissionInput{
		Name:    "",
		Email:   "not-an-address",
		Message: "short",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Details) != 3 {
		t.Fatalf("expected 3 violations, got %v", verr.Details)
	}
}

func TestSubmitRateLimitsPerEmail(t *testing.T) {
	svc := newTestContactService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, validSubmission()); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
	}

	_, err := svc.Submit(ctx, validSubmission())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// A different address is unaffected.
	other := validSubmission()
	other.Email = "someone.else@example.com"
	if _, err := svc.Submit(ctx, other); err != nil {
		t.Fatalf("other email must not be limited: %v", err)
	}
}

func TestUpdateStatusValidatesLifecycle(t *testing.T) {
	svc := newTestContactService(t)

	stored, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	updated, err := svc.UpdateStatus(stored.ID, "resolved")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != db.ContactStatusResolved {
		t.Fatalf("expected RESOLVED, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(stored.ID, "ARCHIVED"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

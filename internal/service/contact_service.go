package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/mailer"
	"github.com/wisnuvb/calmsey/internal/relay"
	"gorm.io/gorm"
)

// MinMessageLength 是联系表单正文的最小长度（按字符计）。
const MinMessageLength = 10

var (
	ErrSubmissionNotFound = errors.New("contact submission not found")
	ErrRateLimited        = errors.New("too many submissions from this email")
)

// ValidationError lists every field violation found in one submission.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid contact submission: " + strings.Join(e.Details, "; ")
}

// ContactService validates, stores and forwards contact submissions.
type ContactService struct {
	db           *gorm.DB
	mailer       mailer.Mailer
	relay        *relay.Client
	logger       *slog.Logger
	maxPerWindow int
	window       time.Duration
}

// NewContactService creates a ContactService. maxPerWindow bounds how many
// submissions a single email may make inside window.
func NewContactService(gdb *gorm.DB, m mailer.Mailer, r *relay.Client, logger *slog.Logger, maxPerWindow int, window time.Duration) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPerWindow <= 0 {
		maxPerWindow = 3
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ContactService{
		db:           gdb,
		mailer:       m,
		relay:        r,
		logger:       logger,
		maxPerWindow: maxPerWindow,
		window:       window,
	}
}

// SubmissionInput is the public contact form payload.
type SubmissionInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	IP      string
}

// Submit validates and stores one submission, then forwards it to the
// notification mailer and the form relay. Forwarding failures are logged,
// never surfaced to the visitor.
func (s *ContactService) Submit(ctx context.Context, input SubmissionInput) (*db.ContactSubmission, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	since := time.Now().Add(-s.window)
	var recent int64
	if err := s.db.Model(&db.ContactSubmission{}).
		Where("email = ? AND created_at > ?", email, since).
		Count(&recent).Error; err != nil {
		return nil, err
	}
	if recent >= int64(s.maxPerWindow) {
		return nil, ErrRateLimited
	}

	submission := db.ContactSubmission{
		Name:    strings.TrimSpace(input.Name),
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  db.ContactStatusUnread,
		IP:      strings.TrimSpace(input.IP),
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}

	s.forward(ctx, submission)
	return &submission, nil
}

func (s *ContactService) forward(ctx context.Context, submission db.ContactSubmission) {
	if s.mailer != nil && s.mailer.Enabled() {
		msg := mailer.Message{
			Subject: fmt.Sprintf("New contact submission from %s", submission.Name),
			Body: fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\n\n%s\n",
				submission.Name, submission.Email, submission.Subject, submission.Message),
		}
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("contact notification mail failed", "submission", submission.ID, "error", err)
		}
	}

	if s.relay != nil {
		err := s.relay.Forward(ctx, relay.Submission{
			Name:    submission.Name,
			Email:   submission.Email,
			Subject: submission.Subject,
			Message: submission.Message,
		})
		if err != nil {
			s.logger.Error("form relay forwarding failed", "submission", submission.ID, "error", err)
		}
	}
}

// List returns submissions for the admin inbox, optionally filtered by
// status, newest first.
func (s *ContactService) List(status string, page, pageSize int) ([]db.ContactSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&db.ContactSubmission{})
	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []db.ContactSubmission
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// UpdateStatus moves a submission through its lifecycle.
func (s *ContactService) UpdateStatus(id uint, status string) (*db.ContactSubmission, error) {
	normalized := strings.ToUpper(strings.TrimSpace(status))
	switch normalized {
	case db.ContactStatusUnread, db.ContactStatusRead, db.ContactStatusResolved, db.ContactStatusClosed:
	default:
		return nil, &ValidationError{Details: []string{fmt.Sprintf("unknown status %q", status)}}
	}

	var submission db.ContactSubmission
	if err := s.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	submission.Status = normalized
	if err := s.db.Save(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// Delete removes a submission.
func (s *ContactService) Delete(id uint) error {
	var submission db.ContactSubmission
	if err := s.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}
	return s.db.Delete(&submission).Error
}

func validateSubmission(input SubmissionInput) error {
	var details []string

	if strings.TrimSpace(input.Name) == "" {
		details = append(details, "name is required")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		details = append(details, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, "email is not a valid address")
	}

	message := strings.TrimSpace(input.Message)
	if utf8.RuneCountInString(message) < MinMessageLength {
		details = append(details,
			fmt.Sprintf("message must be at least %d characters long", MinMessageLength))
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

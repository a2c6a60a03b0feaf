package resetrequest

import (
	"context"
	"strings"
	"time"

	"notifyhub/internal/common/logger"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"
	"notifyhub/internal/usecases"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const Name = "request-password-reset"

// Notifier delivers the reset notification to the account owner after the
// token is committed.
type Notifier interface {
	NotifyResetRequested(ctx context.Context, user *models.User, token string, expiresAt time.Time) error
}

// Service issues the reset token inside one transaction and notifies after
// commit. The token and its expiry are set together on the aggregate, so a
// committed row is always internally consistent.
type Service struct {
	usersInTx func(tx repository.Querier) repository.UserRepository
	tx        repository.TxManager
	notifier  Notifier
	tokenTTL  time.Duration
	logger    logger.Logger
}

type ServiceParams struct {
	UsersInTx func(tx repository.Querier) repository.UserRepository
	Tx        repository.TxManager
	Notifier  Notifier
	TokenTTL  time.Duration
	Logger    logger.Logger
}

func NewService(p ServiceParams) *Service {
	return &Service{
		usersInTx: p.UsersInTx,
		tx:        p.Tx,
		notifier:  p.Notifier,
		tokenTTL:  p.TokenTTL,
		logger:    p.Logger,
	}
}

func (s *Service) Name() string { return Name }

func (s *Service) Validate(_ context.Context, in Input) (Input, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.TenantID = strings.TrimSpace(in.TenantID)

	errs := validation.Errors{}
	if err := validation.Validate(in.Email, validation.Required, is.EmailFormat); err != nil {
		errs["email"] = err
	}
	if _, err := models.ParseTenantID(in.TenantID); err != nil {
		errs["tenantId"] = err
	}
	if len(errs) > 0 {
		return Input{}, usecases.WrapValidation(errs)
	}
	return in, nil
}

// Execute finds the account, issues the token and persists it atomically,
// then hands the token to the notifier. A notification failure is returned to
// the caller; the committed token stays valid so the request can be retried.
func (s *Service) Execute(ctx context.Context, in Input) (*Output, error) {
	email := models.Email(in.Email)
	tenant, _ := models.ParseTenantID(in.TenantID)

	var (
		user  *models.User
		token string
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx repository.Querier) error {
		users := s.usersInTx(tx)

		u, err := users.FindByEmail(ctx, email, tenant)
		if err != nil {
			return err
		}
		token = u.IssueResetToken(s.tokenTTL)
		if _, err := users.Save(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	expiresAt := *user.ResetTokenExpiresAt
	if err := s.notifier.NotifyResetRequested(ctx, user, token, expiresAt); err != nil {
		s.logger.Error("reset notification failed", map[string]interface{}{
			"userId":   user.ID.String(),
			"tenantId": tenant.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.Info("password reset requested", map[string]interface{}{
		"userId":   user.ID.String(),
		"tenantId": tenant.String(),
	})

	return &Output{ExpiresAt: expiresAt.Format(time.RFC3339)}, nil
}

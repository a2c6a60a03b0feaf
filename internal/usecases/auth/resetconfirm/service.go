package resetconfirm

import (
	"context"
	"strings"
	"time"

	"notifyhub/internal/common/auth"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/models"
	"notifyhub/internal/repository"
	"notifyhub/internal/usecases"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const Name = "confirm-password-reset"

const minPasswordLength = 8

// Service verifies the reset token and updates the credential in one
// transaction. The aggregate clears the token on update, so a committed
// confirmation cannot be replayed.
type Service struct {
	usersInTx func(tx repository.Querier) repository.UserRepository
	tx        repository.TxManager
	hasher    auth.PasswordHasher
	logger    logger.Logger
}

type ServiceParams struct {
	UsersInTx func(tx repository.Querier) repository.UserRepository
	Tx        repository.TxManager
	Hasher    auth.PasswordHasher
	Logger    logger.Logger
}

func NewService(p ServiceParams) *Service {
	return &Service{
		usersInTx: p.UsersInTx,
		tx:        p.Tx,
		hasher:    p.Hasher,
		logger:    p.Logger,
	}
}

func (s *Service) Name() string { return Name }

func (s *Service) Validate(_ context.Context, in Input) (Input, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.TenantID = strings.TrimSpace(in.TenantID)
	in.Token = strings.TrimSpace(in.Token)

	errs := validation.Errors{}
	if err := validation.Validate(in.Email, validation.Required, is.EmailFormat); err != nil {
		errs["email"] = err
	}
	if _, err := models.ParseTenantID(in.TenantID); err != nil {
		errs["tenantId"] = err
	}
	if err := validation.Validate(in.Token, validation.Required); err != nil {
		errs["token"] = err
	}
	if err := validation.Validate(in.NewPassword,
		validation.Required,
		validation.Length(minPasswordLength, 0).Error("must be at least 8 characters"),
	); err != nil {
		errs["newPassword"] = err
	}
	if len(errs) > 0 {
		return Input{}, usecases.WrapValidation(errs)
	}
	return in, nil
}

// Execute looks the account up, checks the token and swaps the credential,
// all inside one transaction. An invalid or expired token surfaces as
// models.ErrInvalidResetToken without touching the stored state.
func (s *Service) Execute(ctx context.Context, in Input) (*Output, error) {
	email := models.Email(in.Email)
	tenant, _ := models.ParseTenantID(in.TenantID)

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx repository.Querier) error {
		users := s.usersInTx(tx)

		u, err := users.FindByEmail(ctx, email, tenant)
		if err != nil {
			return err
		}
		if err := u.ValidateResetToken(in.Token); err != nil {
			return err
		}
		u.UpdatePassword(hash)
		if _, err := users.Save(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("password reset confirmed", map[string]interface{}{
		"userId":   user.ID.String(),
		"tenantId": tenant.String(),
	})

	return &Output{
		UserID:    user.ID.String(),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}, nil
}

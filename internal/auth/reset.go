package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/resettokens"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
	"github.com/mateoguzman/skylens-backend/pkg/mailer"
	"github.com/mateoguzman/skylens-backend/pkg/security"
)

const invalidResetTokenMessage = "invalid or expired reset token"

// ResetService drives the password reset lifecycle.
type ResetService interface {
	RequestReset(ctx context.Context, req ResetRequestInput) error
	ConfirmReset(ctx context.Context, req ResetConfirmInput) error
}

type resetIdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	UpdatePasswordHashByEmail(ctx context.Context, email, hash string) error
}

type resetTokenRepository interface {
	Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) (*models.PasswordResetToken, error)
	Consume(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
}

// ResetServiceParams packages the dependencies for the reset flow. Factories
// receive the transaction handle during confirmation and nil when the call
// runs outside a transaction; nil means the shared connection.
type ResetServiceParams struct {
	TxRunner            txRunner
	SharedDB            *gorm.DB
	IdentityRepoFactory func(tx *gorm.DB) resetIdentityRepository
	TokenRepoFactory    func(tx *gorm.DB) resetTokenRepository
	Mailer              mailer.Mailer
	Logger              *logger.Logger
	PasswordConfig      config.PasswordConfig
	ResetConfig         config.ResetConfig
}

type resetService struct {
	tx           txRunner
	sharedDB     *gorm.DB
	identityRepo func(tx *gorm.DB) resetIdentityRepository
	tokenRepo    func(tx *gorm.DB) resetTokenRepository
	mail         mailer.Mailer
	logg         *logger.Logger
	passwordCfg  config.PasswordConfig
	resetCfg     config.ResetConfig
}

func NewResetService(params ResetServiceParams) (ResetService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	if params.IdentityRepoFactory == nil {
		params.IdentityRepoFactory = func(tx *gorm.DB) resetIdentityRepository {
			return identities.NewRepository(tx)
		}
	}
	if params.TokenRepoFactory == nil {
		params.TokenRepoFactory = func(tx *gorm.DB) resetTokenRepository {
			return resettokens.NewRepository(tx)
		}
	}
	return &resetService{
		tx:           params.TxRunner,
		sharedDB:     params.SharedDB,
		identityRepo: params.IdentityRepoFactory,
		tokenRepo:    params.TokenRepoFactory,
		mail:         params.Mailer,
		logg:         params.Logger,
		passwordCfg:  params.PasswordConfig,
		resetCfg:     params.ResetConfig,
	}, nil
}

// RequestReset issues a reset token for the email when an account exists.
// The response is identical either way so the endpoint cannot be used to
// enumerate registered addresses.
func (s *resetService) RequestReset(ctx context.Context, req ResetRequestInput) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.identityRepo(s.sharedDB).FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logg != nil {
				s.logg.Info(ctx, "password reset requested for unknown email")
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}

	rawToken, err := security.GenerateResetToken(s.resetCfg.TokenLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	expiresAt := time.Now().UTC().Add(s.resetCfg.TokenTTL)
	if _, err := s.tokenRepo(s.sharedDB).Create(ctx, email, security.HashResetToken(rawToken), expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	if err := s.mail.SendPasswordReset(ctx, email, rawToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send reset email")
	}
	return nil
}

// ConfirmReset redeems the token and replaces the password in one
// transaction. The token is consumed by a conditional update, so a token
// can only ever be spent once no matter how many confirmations race.
func (s *resetService) ConfirmReset(ctx context.Context, req ResetConfirmInput) error {
	passwordHash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	tokenHash := security.HashResetToken(req.Token)
	now := time.Now().UTC()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		token, err := s.tokenRepo(tx).Consume(ctx, tokenHash, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidResetTokenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume reset token")
		}

		if err := s.identityRepo(tx).UpdatePasswordHashByEmail(ctx, token.Email, passwordHash); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
		return nil
	})
}

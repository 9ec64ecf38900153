package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/internal/identities"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	pkgmodels "github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterIdentityRepo struct {
	data      map[string]*pkgmodels.Identity
	created   *pkgmodels.Identity
	createErr error
}

func newStubRegisterIdentityRepo() *stubRegisterIdentityRepo {
	return &stubRegisterIdentityRepo{data: map[string]*pkgmodels.Identity{}}
}

func (s *stubRegisterIdentityRepo) FindByEmail(_ context.Context, email string) (*pkgmodels.Identity, error) {
	if identity, ok := s.data[email]; ok {
		return identity, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterIdentityRepo) Create(_ context.Context, dto identities.CreateIdentityDTO) (*pkgmodels.Identity, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	identity := dto.ToModel()
	s.data[dto.Email] = identity
	s.created = identity
	return identity, nil
}

type stubRegisterProfileRepo struct {
	created   *pkgmodels.Profile
	createErr error
}

func (s *stubRegisterProfileRepo) Create(_ context.Context, dto profiles.CreateProfileDTO) (*pkgmodels.Profile, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	profile := dto.ToModel()
	s.created = profile
	return profile, nil
}

type registerTestSetup struct {
	service      RegisterService
	identityRepo *stubRegisterIdentityRepo
	profileRepo  *stubRegisterProfileRepo
}

func newRegisterTestSetup(t *testing.T, defaults config.DefaultsConfig) *registerTestSetup {
	t.Helper()

	identityRepo := newStubRegisterIdentityRepo()
	profileRepo := &stubRegisterProfileRepo{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		IdentityRepoFactory: func(tx *gorm.DB) registerIdentityRepository {
			return identityRepo
		},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return profileRepo
		},
		PasswordConfig: config.PasswordConfig{},
		JWTConfig:      config.JWTConfig{Secret: "signup-secret", Issuer: "skylens-test", ExpirationMinutes: 30},
		Defaults:       defaults,
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{
		service:      svc,
		identityRepo: identityRepo,
		profileRepo:  profileRepo,
	}
}

func sampleSignupRequest(email string) SignupRequest {
	return SignupRequest{
		Name:     "Jamie Rivera",
		Email:    email,
		Password: "Secret123!",
	}
}

func TestSignupCreatesIdentityAndProfile(t *testing.T) {
	setup := newRegisterTestSetup(t, config.DefaultsConfig{CanViewDashboard: true})

	resp, err := setup.service.Signup(context.Background(), sampleSignupRequest("New@Example.com"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if setup.identityRepo.created == nil {
		t.Fatal("expected identity to be created")
	}
	if setup.identityRepo.created.Email != "new@example.com" {
		t.Fatalf("email must be normalized, got %q", setup.identityRepo.created.Email)
	}
	if setup.profileRepo.created == nil {
		t.Fatal("expected profile to be created")
	}
	if setup.profileRepo.created.IdentityID != setup.identityRepo.created.ID {
		t.Fatal("profile not linked to created identity")
	}
	if resp.Session.AccessToken == "" {
		t.Fatal("signup must return a session token")
	}

	valid, err := security.VerifyPassword("Secret123!", setup.identityRepo.created.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash must verify the password, valid=%v err=%v", valid, err)
	}
}

func TestSignupAppliesDefaultPolicy(t *testing.T) {
	setup := newRegisterTestSetup(t, config.DefaultsConfig{
		CanViewDashboard: true,
		CanViewClusters:  false,
		CanViewReports:   false,
	})

	if _, err := setup.service.Signup(context.Background(), sampleSignupRequest("new@example.com")); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	profile := setup.profileRepo.created
	if profile.Role != enums.RoleViewer {
		t.Fatalf("new accounts must start as viewer, got %s", profile.Role)
	}
	if !profile.IsActive {
		t.Fatal("new accounts must start active")
	}
	if !profile.CanViewDashboard || profile.CanViewClusters || profile.CanViewReports {
		t.Fatalf("unexpected capability defaults: %+v", profile)
	}
	if profile.CanManageUsers {
		t.Fatal("signup must never grant user management")
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	setup := newRegisterTestSetup(t, config.DefaultsConfig{})
	setup.identityRepo.data["taken@example.com"] = &pkgmodels.Identity{
		ID:    uuid.New(),
		Email: "taken@example.com",
	}

	_, err := setup.service.Signup(context.Background(), sampleSignupRequest("taken@example.com"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if setup.profileRepo.created != nil {
		t.Fatal("no profile may be created for a duplicate email")
	}
}

func TestSignupUniqueViolationMapsToConflict(t *testing.T) {
	setup := newRegisterTestSetup(t, config.DefaultsConfig{})
	setup.identityRepo.createErr = errDuplicateKey{}

	_, err := setup.service.Signup(context.Background(), sampleSignupRequest("racy@example.com"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("racing signups must surface a conflict, got %v", err)
	}
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return `duplicate key value violates unique constraint "idx_identities_email"`
}

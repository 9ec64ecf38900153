package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/internal/auth"
	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	"github.com/mateoguzman/skylens-backend/internal/clusters"
	"github.com/mateoguzman/skylens-backend/internal/principal"
	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/internal/resources"
	"github.com/mateoguzman/skylens-backend/internal/users"
	"github.com/mateoguzman/skylens-backend/pkg/config"
	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
	"github.com/mateoguzman/skylens-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubResolver struct {
	principal *principal.Principal
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*principal.Principal, error) {
	if s.principal == nil || token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	return s.principal, nil
}

type stubAuthService struct{}

func (stubAuthService) Signin(context.Context, auth.SigninRequest) (*auth.AuthResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

type stubRegisterService struct{}

func (stubRegisterService) Signup(context.Context, auth.SignupRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{Session: auth.SessionDTO{AccessToken: "token"}}, nil
}

type stubResetService struct{}

func (stubResetService) RequestReset(context.Context, auth.ResetRequestInput) error {
	return nil
}

func (stubResetService) ConfirmReset(context.Context, auth.ResetConfirmInput) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) List(context.Context) ([]profiles.ProfileDTO, error) {
	return []profiles.ProfileDTO{}, nil
}

func (stubUsersService) Get(context.Context, uuid.UUID) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubUsersService) Update(context.Context, uuid.UUID, profiles.UpdateProfileDTO) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubUsersService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func (stubUsersService) UpdateSelf(context.Context, uuid.UUID, users.SelfUpdateRequest) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

type stubClustersService struct{}

func (stubClustersService) VisibleClusters(context.Context, uuid.UUID) ([]clusters.ClusterDTO, error) {
	return []clusters.ClusterDTO{}, nil
}

func (stubClustersService) VisibleClusterIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type stubResourcesService struct{}

func (stubResourcesService) ListVisible(context.Context, uuid.UUID, resources.ListFilter) ([]resources.ResourceDTO, error) {
	return []resources.ResourceDTO{}, nil
}

func (stubResourcesService) StatsVisible(context.Context, uuid.UUID) (*resources.DashboardStats, error) {
	return &resources.DashboardStats{}, nil
}

type stubPermsService struct{}

func (stubPermsService) Set(_ context.Context, req clusterperms.SetRequest) (*clusterperms.PermissionDTO, error) {
	return &clusterperms.PermissionDTO{UserID: req.UserID, ClusterID: req.ClusterID, CanView: req.CanView}, nil
}

func (stubPermsService) Check(_ context.Context, userID, clusterID uuid.UUID) (*clusterperms.PermissionDTO, error) {
	return &clusterperms.PermissionDTO{UserID: userID, ClusterID: clusterID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func principalWith(profile *models.Profile) *principal.Principal {
	identityID := uuid.New()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.IdentityID = identityID
	return &principal.Principal{
		Identity: &models.Identity{ID: identityID, Email: "ana@example.com"},
		Profile:  profile,
	}
}

func newTestRouter(resolver *stubResolver) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:       testConfig(),
		Logger:       logg,
		DB:           stubPinger{},
		Resolver:     resolver,
		AuthService:  stubAuthService{},
		Register:     stubRegisterService{},
		Reset:        stubResetService{},
		Users:        stubUsersService{},
		Clusters:     stubClustersService{},
		Resources:    stubResourcesService{},
		ClusterPerms: stubPermsService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(&stubResolver{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicPing(t *testing.T) {
	router := newTestRouter(&stubResolver{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(&stubResolver{})

	for _, path := range []string{"/auth/user", "/dashboard/stats", "/clusters", "/resources", "/admin/users"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestSignoutWithValidToken(t *testing.T) {
	resolver := &stubResolver{principal: principalWith(&models.Profile{
		Role:     enums.RoleViewer,
		IsActive: true,
	})}
	router := newTestRouter(resolver)

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDashboardRequiresCapabilityFlag(t *testing.T) {
	resolver := &stubResolver{principal: principalWith(&models.Profile{
		Role:     enums.RoleViewer,
		IsActive: true,
	})}
	router := newTestRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without the dashboard flag, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireDualGate(t *testing.T) {
	adminNoFlag := &stubResolver{principal: principalWith(&models.Profile{
		Role:     enums.RoleAdmin,
		IsActive: true,
	})}
	router := newTestRouter(adminNoFlag)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin without flag: expected 403, got %d", rec.Code)
	}

	adminWithFlag := &stubResolver{principal: principalWith(&models.Profile{
		Role:           enums.RoleAdmin,
		IsActive:       true,
		CanManageUsers: true,
	})}
	router = newTestRouter(adminWithFlag)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin with flag: expected 200, got %d", rec.Code)
	}
}

func TestClusterPermissionRoutesGated(t *testing.T) {
	editor := &stubResolver{principal: principalWith(&models.Profile{
		Role:     enums.RoleEditor,
		IsActive: true,
	})}
	router := newTestRouter(editor)

	req := httptest.NewRequest(http.MethodDelete, "/user-cluster-permissions/"+uuid.NewString()+"/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin must not manage grants, got %d", rec.Code)
	}
}

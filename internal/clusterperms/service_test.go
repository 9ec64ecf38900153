package clusterperms

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoguzman/skylens-backend/pkg/db/models"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

type stubPermRepo struct {
	grants map[[2]uuid.UUID]bool
}

func newStubPermRepo() *stubPermRepo {
	return &stubPermRepo{grants: map[[2]uuid.UUID]bool{}}
}

func (s *stubPermRepo) CanViewCluster(_ context.Context, userID, clusterID uuid.UUID) (bool, error) {
	return s.grants[[2]uuid.UUID{userID, clusterID}], nil
}

func (s *stubPermRepo) Set(_ context.Context, userID, clusterID uuid.UUID, canView bool) error {
	key := [2]uuid.UUID{userID, clusterID}
	if canView {
		s.grants[key] = true
	} else {
		delete(s.grants, key)
	}
	return nil
}

type stubProfileFinder struct {
	known map[uuid.UUID]bool
}

func (s *stubProfileFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if s.known[id] {
		return &models.Profile{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubClusterFinder struct {
	known map[uuid.UUID]bool
}

func (s *stubClusterFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Cluster, error) {
	if s.known[id] {
		return &models.Cluster{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newPermsServiceSetup(t *testing.T) (Service, *stubPermRepo, uuid.UUID, uuid.UUID) {
	t.Helper()

	userID, clusterID := uuid.New(), uuid.New()
	repo := newStubPermRepo()
	svc, err := NewService(ServiceParams{
		PermissionRepo: repo,
		ProfileRepo:    &stubProfileFinder{known: map[uuid.UUID]bool{userID: true}},
		ClusterRepo:    &stubClusterFinder{known: map[uuid.UUID]bool{clusterID: true}},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, userID, clusterID
}

func TestSetGrantAndCheck(t *testing.T) {
	svc, _, userID, clusterID := newPermsServiceSetup(t)
	ctx := context.Background()

	dto, err := svc.Set(ctx, SetRequest{UserID: userID, ClusterID: clusterID, CanView: true})
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !dto.CanView {
		t.Fatal("expected grant in response")
	}

	check, err := svc.Check(ctx, userID, clusterID)
	if err != nil || !check.CanView {
		t.Fatalf("expected grant, got %+v err=%v", check, err)
	}
}

func TestCheckDefaultsToDeny(t *testing.T) {
	svc, _, userID, clusterID := newPermsServiceSetup(t)

	check, err := svc.Check(context.Background(), userID, clusterID)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if check.CanView {
		t.Fatal("absent grant must deny")
	}
}

func TestSetUnknownUser(t *testing.T) {
	svc, repo, _, clusterID := newPermsServiceSetup(t)

	_, err := svc.Set(context.Background(), SetRequest{
		UserID:    uuid.New(),
		ClusterID: clusterID,
		CanView:   true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.grants) != 0 {
		t.Fatal("no grant may be written for an unknown user")
	}
}

func TestSetUnknownCluster(t *testing.T) {
	svc, repo, userID, _ := newPermsServiceSetup(t)

	_, err := svc.Set(context.Background(), SetRequest{
		UserID:    userID,
		ClusterID: uuid.New(),
		CanView:   true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.grants) != 0 {
		t.Fatal("no grant may be written for an unknown cluster")
	}
}

func TestSetMissingIDs(t *testing.T) {
	svc, _, userID, _ := newPermsServiceSetup(t)

	_, err := svc.Set(context.Background(), SetRequest{UserID: userID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetRevokeIdempotentThroughService(t *testing.T) {
	svc, repo, userID, clusterID := newPermsServiceSetup(t)
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetRequest{UserID: userID, ClusterID: clusterID, CanView: true}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Set(ctx, SetRequest{UserID: userID, ClusterID: clusterID, CanView: false}); err != nil {
			t.Fatalf("revoke %d failed: %v", i, err)
		}
	}
	if len(repo.grants) != 0 {
		t.Fatal("expected no grants after revoke")
	}
}

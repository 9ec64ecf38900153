package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/internal/profiles"
	"github.com/mateoguzman/skylens-backend/pkg/enums"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

func TestAdminUsersList(t *testing.T) {
	svc := &stubUsersService{list: []profiles.ProfileDTO{
		{ID: uuid.New(), Name: "Ana", Role: enums.RoleAdmin},
		{ID: uuid.New(), Name: "Ben", Role: enums.RoleViewer},
	}}
	handler := AdminUsersList(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body []profiles.ProfileDTO
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 || body[0].Name != "Ana" {
		t.Fatalf("unexpected list %+v", body)
	}
}

func TestAdminUserGetUnknown(t *testing.T) {
	svc := &stubUsersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := AdminUserGet(svc, nil)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/admin/users/x", nil), map[string]string{
		"id": uuid.NewString(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminUserUpdate(t *testing.T) {
	id := uuid.New()
	svc := &stubUsersService{profile: &profiles.ProfileDTO{ID: id, Role: enums.RoleEditor, IsActive: true}}
	handler := AdminUserUpdate(svc, nil)

	req := withURLParams(
		httptest.NewRequest(http.MethodPatch, "/admin/users/x", bytes.NewReader([]byte(`{"role":"editor","is_active":true}`))),
		map[string]string{"id": id.String()},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != id {
		t.Fatalf("patch sent to wrong id %s", svc.lastID)
	}
	var body profiles.ProfileDTO
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Role != enums.RoleEditor {
		t.Fatalf("expected updated profile, got %+v", body)
	}
}

func TestAdminUserUpdateRejectsBadRole(t *testing.T) {
	handler := AdminUserUpdate(&stubUsersService{}, nil)

	req := withURLParams(
		httptest.NewRequest(http.MethodPatch, "/admin/users/x", bytes.NewReader([]byte(`{"role":"superuser"}`))),
		map[string]string{"id": uuid.NewString()},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminUserDelete(t *testing.T) {
	id := uuid.New()
	svc := &stubUsersService{}
	handler := AdminUserDelete(svc, nil)

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/admin/users/x", nil), map[string]string{
		"id": id.String(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("expected delete for %s, got %v", id, svc.deleted)
	}
}

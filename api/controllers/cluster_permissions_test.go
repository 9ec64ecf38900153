package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateoguzman/skylens-backend/internal/clusterperms"
	pkgerrors "github.com/mateoguzman/skylens-backend/pkg/errors"
)

type stubPermService struct {
	result *clusterperms.PermissionDTO
	err    error
	last   clusterperms.SetRequest
}

func (s *stubPermService) Set(_ context.Context, req clusterperms.SetRequest) (*clusterperms.PermissionDTO, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &clusterperms.PermissionDTO{UserID: req.UserID, ClusterID: req.ClusterID, CanView: req.CanView}, nil
}

func (s *stubPermService) Check(_ context.Context, userID, clusterID uuid.UUID) (*clusterperms.PermissionDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &clusterperms.PermissionDTO{UserID: userID, ClusterID: clusterID, CanView: s.result != nil && s.result.CanView}, nil
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for name, value := range params {
		rctx.URLParams.Add(name, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestClusterPermissionSetGrantReturnsRow(t *testing.T) {
	svc := &stubPermService{}
	handler := ClusterPermissionSet(svc, nil)

	userID, clusterID := uuid.New(), uuid.New()
	payload := []byte(`{"user_id":"` + userID.String() + `","cluster_id":"` + clusterID.String() + `","can_view":true}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user-cluster-permissions", bytes.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body clusterperms.PermissionDTO
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.UserID != userID || body.ClusterID != clusterID || !body.CanView {
		t.Fatalf("unexpected row %+v", body)
	}
}

func TestClusterPermissionSetRevokeReturnsSuccess(t *testing.T) {
	svc := &stubPermService{}
	handler := ClusterPermissionSet(svc, nil)

	payload := []byte(`{"user_id":"` + uuid.NewString() + `","cluster_id":"` + uuid.NewString() + `","can_view":false}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user-cluster-permissions", bytes.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["success"] {
		t.Fatalf("expected success body, got %+v", body)
	}
}

func TestClusterPermissionSetUnknownUser(t *testing.T) {
	svc := &stubPermService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	handler := ClusterPermissionSet(svc, nil)

	payload := []byte(`{"user_id":"` + uuid.NewString() + `","cluster_id":"` + uuid.NewString() + `","can_view":true}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user-cluster-permissions", bytes.NewReader(payload)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClusterPermissionDelete(t *testing.T) {
	svc := &stubPermService{}
	handler := ClusterPermissionDelete(svc, nil)

	userID, clusterID := uuid.New(), uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/user-cluster-permissions/x/y", nil), map[string]string{
		"userId":    userID.String(),
		"clusterId": clusterID.String(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.last.UserID != userID || svc.last.ClusterID != clusterID || svc.last.CanView {
		t.Fatalf("expected revoke for the path pair, got %+v", svc.last)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["success"] {
		t.Fatalf("expected success body, got %+v", body)
	}
}

func TestClusterPermissionDeleteBadParam(t *testing.T) {
	handler := ClusterPermissionDelete(&stubPermService{}, nil)

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/user-cluster-permissions/x/y", nil), map[string]string{
		"userId":    "not-a-uuid",
		"clusterId": uuid.NewString(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

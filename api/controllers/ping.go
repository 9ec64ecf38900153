package controllers

import (
	"net/http"

	"github.com/mateoguzman/skylens-backend/api/middleware"
	"github.com/mateoguzman/skylens-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if p := middleware.PrincipalFromContext(r.Context()); p != nil {
			payload["user_id"] = p.UserID().String()
		}
		responses.WriteSuccess(w, payload)
	}
}

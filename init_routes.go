package main

import (
	"net/http"

	"github.com/emreakn/dojohub/handlers"
	"github.com/emreakn/dojohub/middleware"
	"github.com/emreakn/dojohub/pkg"
)

// initRoutes tüm HTTP route'larını kaydeder.
//
// Go 1.22+ method+pattern mux kullanılır: "POST /api/auth/login" gibi.
// Korumalı route'lar auth middleware'ın Require* wrapper'larından geçer —
// yetki policy'si route tanımında GÖRÜNÜR olsun diye burada seçilir,
// handler içine gömülmez.
func initRoutes(
	mux *http.ServeMux,
	auth *handlers.AuthHandler,
	accounts *handlers.AccountHandler,
	mw *middleware.AuthMiddleware,
) {
	// Health check — auth gerektirmez
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ─── Auth ───
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/auth/refresh", auth.Refresh)
	mux.Handle("GET /api/auth/me", mw.RequireAuth(http.HandlerFunc(auth.Me)))

	// ─── Accounts (admin paneli) ───
	mux.Handle("GET /api/accounts", mw.RequireAdmin(http.HandlerFunc(accounts.List)))
	mux.Handle("POST /api/accounts", mw.RequireAdmin(http.HandlerFunc(accounts.Create)))
	mux.Handle("GET /api/accounts/{id}", mw.RequireSelfOrAdmin(http.HandlerFunc(accounts.Get)))
	mux.Handle("PATCH /api/accounts/{id}/active", mw.RequireAdmin(http.HandlerFunc(accounts.SetActive)))
}

package main

import (
	"net/http"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/gate"
	"github.com/diewo77/talentos/httpx"
	"github.com/diewo77/talentos/internal/middleware"
	"github.com/diewo77/talentos/internal/obs"
	"github.com/diewo77/talentos/internal/policy"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured. maxBody caps
// every request body.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig, maxBody int64) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()

	var h http.Handler = app.mux
	h = routerCfg.Guard.Resolve(h)
	h = auth.Middleware(h)
	h = middleware.Prefs(h)
	h = middleware.MaxBodyBytes(maxBody)(h)
	h = middleware.SecurityHeaders(h)
	h = middleware.Recover(h)
	h = middleware.Logging(h)
	app.handler = obs.Instrument(h)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	g := a.routerCfg.Guard
	staff := g.RequireStaff()
	can := g.RequirePermission

	// Public
	ah := a.routerCfg.AuthHandler
	dh := a.routerCfg.DashboardHandler
	aph := a.routerCfg.ApplicationHandler

	a.mux.HandleFunc("GET /", dh.Landing)
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("GET /inscrever/{token}", aph.PublicPosting)
	a.mux.HandleFunc("POST /inscrever/{token}", aph.Apply)

	// Ops
	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.Handle("GET /metrics", obs.Handler())

	// Staff
	a.mux.Handle("GET /dashboard", staff(http.HandlerFunc(dh.Dashboard)))

	uh := a.routerCfg.AccountHandler
	a.mux.Handle("GET /usuarios", can(policy.ResourceAccount, gate.ActionList)(http.HandlerFunc(uh.List)))
	a.mux.Handle("POST /usuarios/cadastrar", can(policy.ResourceAccount, gate.ActionCreate)(http.HandlerFunc(uh.Create)))
	a.mux.Handle("POST /usuarios/editar/{id}", can(policy.ResourceAccount, gate.ActionUpdate)(http.HandlerFunc(uh.Edit)))
	a.mux.Handle("GET /usuarios/excluir/{id}", can(policy.ResourceAccount, gate.ActionDelete)(http.HandlerFunc(uh.Delete)))

	ph := a.routerCfg.PostingHandler
	a.mux.Handle("GET /vagas", can(policy.ResourcePosting, gate.ActionList)(http.HandlerFunc(ph.List)))
	a.mux.Handle("POST /vagas/criar", can(policy.ResourcePosting, gate.ActionCreate)(http.HandlerFunc(ph.Create)))
	a.mux.Handle("POST /vagas/editar/{id}", can(policy.ResourcePosting, gate.ActionUpdate)(http.HandlerFunc(ph.Edit)))
	a.mux.Handle("GET /vagas/excluir/{id}", can(policy.ResourcePosting, gate.ActionDelete)(http.HandlerFunc(ph.Delete)))

	a.mux.Handle("GET /candidatos/vaga/{posting_id}", can(policy.ResourceApplication, gate.ActionList)(http.HandlerFunc(aph.ByPosting)))
	a.mux.Handle("POST /candidatos/status/{id}", can(policy.ResourceApplication, gate.ActionUpdate)(http.HandlerFunc(aph.UpdateStatus)))
	a.mux.Handle("GET /candidatos/ver/{id}", can(policy.ResourceApplication, gate.ActionView)(http.HandlerFunc(aph.View)))
	a.mux.Handle("GET /banco-talentos", can(policy.ResourceApplication, gate.ActionList)(http.HandlerFunc(aph.TalentPool)))

	rh := a.routerCfg.ResumeHandler
	a.mux.Handle("GET /download/{filename}", can(policy.ResourceResume, gate.ActionView)(http.HandlerFunc(rh.Download)))

	// Master
	a.mux.Handle("GET /manutencao", can(policy.ResourceMaintenance, gate.ActionView)(http.HandlerFunc(dh.Maintenance)))
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

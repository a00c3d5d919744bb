package policy

import (
	"time"

	"github.com/diewo77/talentos/internal/config"
	"github.com/diewo77/talentos/internal/handlers"
	"github.com/diewo77/talentos/internal/notify"
	"github.com/diewo77/talentos/internal/repository"
	"github.com/diewo77/talentos/internal/services"
	"github.com/diewo77/talentos/internal/storage"
	"gorm.io/gorm"
)

// RouterConfig holds the wired guard, services and handlers.
type RouterConfig struct {
	Guard *AccessGuard

	AuthHandler        *handlers.AuthHandler
	AccountHandler     *handlers.AccountHandler
	PostingHandler     *handlers.PostingHandler
	ApplicationHandler *handlers.ApplicationHandler
	ResumeHandler      *handlers.ResumeHandler
	DashboardHandler   *handlers.DashboardHandler

	Accounts     *services.AccountService
	Postings     *services.PostingService
	Applications *services.ApplicationWorkflow
}

// NewRouterConfig wires repositories over conn, résumé storage in files and
// the confirmation notifier into the handlers.
func NewRouterConfig(conn *gorm.DB, cfg config.Config, files *storage.Local, notifier notify.Notifier) *RouterConfig {
	accountRepo := repository.NewAccountRepository(conn)
	postingRepo := repository.NewPostingRepository(conn)
	applicationRepo := repository.NewApplicationRepository(conn)

	guard := NewAccessGuard(accountRepo, time.Duration(cfg.App.CacheTTL)*time.Second)
	guard.RegisterPolicy(ResourceResume, NewResumePolicy(applicationRepo))

	accounts := services.NewAccountService(accountRepo)
	postings := services.NewPostingService(postingRepo, files)
	applications := services.NewApplicationWorkflow(postingRepo, applicationRepo, files, notifier)
	dashboard := services.NewDashboardService(postingRepo, applicationRepo)
	maintenance := services.NewMaintenanceService(cfg.Database.Driver, accountRepo, postingRepo, applicationRepo, files)

	return &RouterConfig{
		Guard:              guard,
		AuthHandler:        handlers.NewAuthHandler(accounts),
		AccountHandler:     handlers.NewAccountHandler(accounts, guard),
		PostingHandler:     handlers.NewPostingHandler(postings),
		ApplicationHandler: handlers.NewApplicationHandler(postings, applications),
		ResumeHandler:      handlers.NewResumeHandler(files, guard, ResourceResume),
		DashboardHandler:   handlers.NewDashboardHandler(cfg.App.Name, dashboard, maintenance),
		Accounts:           accounts,
		Postings:           postings,
		Applications:       applications,
	}
}

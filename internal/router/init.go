package router

import (
	"github.com/Vadim-3/b2-hm14/config"
	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/internal/container"
	repo "github.com/Vadim-3/b2-hm14/internal/domain/repository"
	esinfra "github.com/Vadim-3/b2-hm14/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/Vadim-3/b2-hm14/internal/infrastructure/gcs"
	"github.com/Vadim-3/b2-hm14/internal/infrastructure/memory"
	pginfra "github.com/Vadim-3/b2-hm14/internal/infrastructure/postgres"
	handlers "github.com/Vadim-3/b2-hm14/internal/interface/http"
	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
	"github.com/Vadim-3/b2-hm14/internal/router/modules"
)

// Deps are the services every module is built from.
type Deps struct {
	Cfg        *config.Config
	Accounts   repo.AccountRepository
	Contacts   repo.ContactRepository
	Directory  *application.Directory
	AccountSvc *application.AccountService
	AuthSvc    *application.AuthService
	Limiter    middleware.RateLimiter
}

func buildRepos(cfg *config.Config) (repo.AccountRepository, repo.ContactRepository) {
	if cfg.UseMemoryStore() || container.GetPGPool() == nil {
		return memory.NewAccountRepository(), memory.NewContactRepository()
	}
	pool := container.GetPGPool()
	return pginfra.NewAccountRepository(pool), pginfra.NewContactRepository(pool)
}

// BuildDeps wires services from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	accounts, contacts := buildRepos(cfg)

	var index application.ContactIndexer
	if es := container.GetES(); es != nil {
		index = esinfra.NewContactIndex(es, cfg.ESContactsIndex)
	}
	var images application.ImageHost
	if gcs := container.GetGCS(); gcs != nil {
		images = gcsinfra.NewImageHost(gcs, cfg.GCSBucket)
	}
	var mail application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}
	var limiter middleware.RateLimiter
	if rdb := container.GetRedis(); rdb != nil {
		limiter = middleware.NewRedisLimiter(rdb)
	}

	return Deps{
		Cfg:        cfg,
		Accounts:   accounts,
		Contacts:   contacts,
		Directory:  application.NewDirectory(contacts, index, logger),
		AccountSvc: application.NewAccountService(accounts, container.GetJWT(), images, logger),
		AuthSvc: application.NewAuthService(accounts, container.GetJWT(), container.GetRedis(), mail, logger, application.AuthOptions{
			AppName:     cfg.CompanyName,
			ConfirmURL:  cfg.ConfirmEmailURL,
			SupportURL:  cfg.SupportURL,
			ConfirmTTL:  cfg.ConfirmTokenTTL,
			MailEnabled: cfg.MailSendEnabled,
		}),
		Limiter: limiter,
	}
}

// InitModules registers every feature module on the registry.
func InitModules(r *Registry, d Deps) {
	logger := container.GetLogger()
	cfg := d.Cfg

	r.Add(&modules.AuthModule{
		Handler:  handlers.NewAuthHandler(d.AuthSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		Resolver: d.AccountSvc,
		Limiter:  d.Limiter,
		Logger:   logger,
	})
	r.Add(&modules.ContactModule{
		Contacts: handlers.NewContactHandler(d.Directory, logger, cfg.BirthdayWindowDays),
		Accounts: handlers.NewAccountHandler(d.AccountSvc, logger),
		Resolver: d.AccountSvc,
		Limiter:  d.Limiter,
		Max:      cfg.ContactsRateLimit,
		Window:   cfg.ContactsRateWindow,
		FailOpen: cfg.RateLimitFailOpen,
		Logger:   logger,
	})
	if cfg.DebugMetricsEnabled {
		metrics := middleware.NewMetrics()
		r.Use(metrics.Middleware())
		r.Add(&modules.DebugModule{Metrics: metrics, Limiter: d.Limiter, Logger: logger})
	}
}

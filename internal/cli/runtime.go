package cli

import (
	"fmt"

	"kikisite/internal/config"
	"kikisite/internal/database"
	"kikisite/internal/repositories"
	"kikisite/internal/services"
	"kikisite/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// runtime holds what every database-backed command needs.
type runtime struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(cfg.Log)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Error().Err(err).Msg("Failed to close database")
	}
}

func (r *runtime) articleService(publisher services.EventPublisher) *services.ArticleService {
	defaults := services.ArticleDefaults{
		Category:     r.cfg.Articles.Category,
		ReadTime:     r.cfg.Articles.ReadTime,
		AuthorName:   r.cfg.Articles.AuthorName,
		AuthorBio:    r.cfg.Articles.AuthorBio,
		AuthorAvatar: r.cfg.Articles.AuthorAvatar,
	}
	return services.NewArticleService(repositories.NewGORMArticleRepository(r.db), publisher, defaults, r.log)
}

func (r *runtime) authService() *services.AuthService {
	return services.NewAuthService(repositories.NewGORMUserRepository(r.db), r.cfg.Auth.JWTSecret, r.log)
}

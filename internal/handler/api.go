package handler

import (
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	users       *service.UserService
	posts       *service.PostService
	comments    *service.CommentService
	submissions *service.SubmissionService
	exports     *service.ExportService
	categories  *service.CategoryService
	community   *service.CommunityService
	jwtSecret   []byte
	uploadDir   string
	uploadURL   string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	notifier := service.NewEmailService(cfg.Email)
	posts := service.NewPostService(gdb)

	return &API{
		db:          gdb,
		users:       service.NewUserService(gdb),
		posts:       posts,
		comments:    service.NewCommentService(gdb),
		submissions: service.NewSubmissionService(gdb, posts, notifier),
		exports:     service.NewExportService(gdb, posts, nil, cfg.WatermarkText),
		categories:  service.NewCategoryService(gdb),
		community:   service.NewCommunityService(gdb, notifier),
		jwtSecret:   []byte(cfg.JWTSecret),
		uploadDir:   cfg.UploadDir,
		uploadURL:   cfg.UploadURLPath,
	}
}

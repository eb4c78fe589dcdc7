package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EmailConfig 描述发送通知邮件所需的 SMTP 配置。
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled 仅当配置了 SMTP 主机与发件人时才会真正发送邮件。
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.From != ""
}

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	GinMode            string
	JWTSecret          string
	UploadDir          string
	UploadURLPath      string
	WatermarkText      string
	SuperAdminName     string
	SuperAdminEmail    string
	SuperAdminPassword string
	Email              EmailConfig
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "inkwell.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "inkwell-dev-secret"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/uploads"
	}

	watermark := strings.TrimSpace(os.Getenv("WATERMARK_TEXT"))
	if watermark == "" {
		watermark = "© Inkwell Writing Platform"
	}

	emailPort := 587
	if raw := strings.TrimSpace(os.Getenv("EMAIL_PORT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			emailPort = parsed
		}
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		GinMode:            ginMode,
		JWTSecret:          jwtSecret,
		UploadDir:          uploadDir,
		UploadURLPath:      uploadURLPath,
		WatermarkText:      watermark,
		SuperAdminName:     strings.TrimSpace(os.Getenv("SUPER_ADMIN_NAME")),
		SuperAdminEmail:    strings.TrimSpace(os.Getenv("SUPER_ADMIN_EMAIL")),
		SuperAdminPassword: strings.TrimSpace(os.Getenv("SUPER_ADMIN_PASSWORD")),
		Email: EmailConfig{
			Host:     strings.TrimSpace(os.Getenv("EMAIL_HOST")),
			Port:     emailPort,
			Username: strings.TrimSpace(os.Getenv("EMAIL_USER")),
			Password: strings.TrimSpace(os.Getenv("EMAIL_PASS")),
			From:     strings.TrimSpace(os.Getenv("EMAIL_FROM")),
		},
	}
}

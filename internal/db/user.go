package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户角色，从低到高依次为作者、管理员、超级管理员。
const (
	RoleAuthor     = "author"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User 定义了平台用户模型
type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Role         string `gorm:"not null;default:author"`
	IsActive     bool   `gorm:"not null;default:true"`
	Bio          string
	ProfileImage string
	CreatedByID  *uint
}

// EnsureSuperAdmin 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的超级管理员。
func EnsureSuperAdmin(gdb *gorm.DB, name, email, password string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		trimmedName = "Super Admin"
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return gdb.Create(&User{
			Name:     trimmedName,
			Email:    trimmedEmail,
			Password: string(hashed),
			Role:     RoleSuperAdmin,
			IsActive: true,
		}).Error
	}

	return nil
}

package db

import (
	"time"

	"gorm.io/gorm"
)

// CommunityMember 定义了社区成员模型
type CommunityMember struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	JoinedAt      time.Time
	IsActive      bool `gorm:"not null;default:true"`
	EmailVerified bool `gorm:"not null;default:false"`
}

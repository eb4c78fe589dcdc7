package db

import (
	"time"

	"gorm.io/gorm"
)

// 投稿审核状态
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// SubmissionCategories 列出投稿允许的固定分类集合。
var SubmissionCategories = []string{
	"short-stories",
	"personal-essays",
	"think-pieces",
	"articles",
	"non-fiction",
}

// Submission 定义了读者投稿模型
type Submission struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Content         string `gorm:"not null"`
	AuthorName      string `gorm:"not null"`
	AuthorEmail     string `gorm:"not null"`
	Category        string `gorm:"not null"`
	Status          string `gorm:"not null;default:pending;index"`
	SubmittedAt     time.Time
	ReviewedByID    *uint
	ReviewedBy      *User `gorm:"foreignKey:ReviewedByID"`
	ReviewedAt      *time.Time
	Notes           string
	ConvertedPostID *uint
}

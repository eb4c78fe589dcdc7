package db

import "gorm.io/gorm"

// Comment 定义了文章评论模型，通过 ParentID 支持一层回复嵌套。
// 父评论的回复列表即按创建时间排序的子评论集合。
type Comment struct {
	gorm.Model
	PostID      uint `gorm:"not null;index"`
	Post        Post
	AuthorName  string `gorm:"not null"`
	AuthorEmail string
	UserID      *uint
	Content     string    `gorm:"not null"`
	IsApproved  bool      `gorm:"not null;default:false"`
	ParentID    *uint     `gorm:"index"`
	Replies     []Comment `gorm:"foreignKey:ParentID"`
}

package db

import "gorm.io/gorm"

// Category 定义了文章分类模型
type Category struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`
	SortOrder   int  `gorm:"not null;default:0"`
}

package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 文章生命周期状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// StringList 将有序标签列表序列化为 JSON 存储，允许重复项。
type StringList []string

// Value 实现 driver.Valuer。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner。
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// FontSettings 记录文章的排版设置。
type FontSettings struct {
	Family     string  `json:"fontFamily"`
	Size       int     `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
}

// 排版默认值
const (
	DefaultFontFamily     = "Spectral, serif"
	DefaultFontSize       = 16
	DefaultFontLineHeight = 1.6
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title          string `gorm:"not null"`
	Slug           string `gorm:"uniqueIndex;not null"`
	Description    string
	Content        string `gorm:"not null"`
	Excerpt        string
	CategoryID     uint `gorm:"not null;index"`
	Category       Category
	AuthorID       uint `gorm:"not null;index"`
	Author         User
	Status         string `gorm:"not null;default:draft;index"`
	PublishedAt    *time.Time
	FeaturedImage  string
	ImageURL       string
	Tags           StringList   `gorm:"type:text"`
	ReadTime       int          `gorm:"not null;default:0"`
	FontSettings   FontSettings `gorm:"embedded;embeddedPrefix:font_"`
	DownloadCount  int64        `gorm:"not null;default:0"`
	IsDownloadable bool         `gorm:"not null;default:false"`
}

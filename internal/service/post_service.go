package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// PostService owns the post lifecycle: draft, published, archived.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title          string
	Description    string
	Content        string
	Excerpt        string
	CategoryID     uint
	Tags           []string
	Status         string
	FeaturedImage  string
	ImageURL       string
	IsDownloadable bool
	FontSettings   *db.FontSettings
}

// PostPatch carries partial updates; nil fields are left untouched.
type PostPatch struct {
	Title          *string
	Description    *string
	Content        *string
	Excerpt        *string
	CategoryID     *uint
	Tags           *[]string
	Status         *string
	FeaturedImage  *string
	ImageURL       *string
	IsDownloadable *bool
	FontSettings   *db.FontSettings
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Status       string
	CategorySlug string
	AuthorID     uint
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

func validPostStatus(status string) bool {
	switch status {
	case db.PostStatusDraft, db.PostStatusPublished, db.PostStatusArchived:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func applyFontDefaults(fs *db.FontSettings) db.FontSettings {
	settings := db.FontSettings{
		Family:     db.DefaultFontFamily,
		Size:       db.DefaultFontSize,
		LineHeight: db.DefaultFontLineHeight,
	}
	if fs == nil {
		return settings
	}
	if strings.TrimSpace(fs.Family) != "" {
		settings.Family = fs.Family
	}
	if fs.Size > 0 {
		settings.Size = fs.Size
	}
	if fs.LineHeight > 0 {
		settings.LineHeight = fs.LineHeight
	}
	return settings
}

// Create constructs a post for the acting author. Status defaults to
// draft; a first transition straight into published stamps PublishedAt.
func (s *PostService) Create(actor Actor, input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, validationf("content is required")
	}

	status := input.Status
	if status == "" {
		status = db.PostStatusDraft
	}
	if !validPostStatus(status) {
		return nil, validationf("invalid status %q", status)
	}

	var category db.Category
	if err := s.db.First(&category, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("category not found")
		}
		return nil, err
	}

	slug := Slugify(title)
	if slug == "" {
		return nil, validationf("title does not yield a usable slug")
	}
	if taken, err := s.slugTaken(slug, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, &ConflictError{Message: "a post with this slug already exists"}
	}

	post := db.Post{
		Title:          title,
		Slug:           slug,
		Description:    strings.TrimSpace(input.Description),
		Content:        input.Content,
		Excerpt:        strings.TrimSpace(input.Excerpt),
		CategoryID:     category.ID,
		AuthorID:       actor.UserID,
		Status:         status,
		FeaturedImage:  input.FeaturedImage,
		ImageURL:       input.ImageURL,
		Tags:           input.Tags,
		ReadTime:       ReadTime(input.Content),
		FontSettings:   applyFontDefaults(input.FontSettings),
		IsDownloadable: input.IsDownloadable,
	}

	if status == db.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.db.Create(&post).Error; err != nil {
		// The store's unique index is the authority on slug collisions;
		// re-check once so a concurrent writer surfaces as a conflict.
		if isUniqueViolation(err) {
			if taken, checkErr := s.slugTaken(slug, 0); checkErr == nil && taken {
				return nil, &ConflictError{Message: "a post with this slug already exists"}
			}
			return nil, &ConflictError{Message: "post conflicts with an existing record"}
		}
		return nil, err
	}

	return s.Get(post.ID)
}

// Update applies the patch to an existing post. The slug is re-derived
// only when the title itself changes, read time only when the content
// changes, and PublishedAt is stamped at most once.
func (s *PostService) Update(id uint, actor Actor, patch PostPatch) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post")
		}
		return nil, err
	}

	if err := authorizeOwner(actor, post.AuthorID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, validationf("title is required")
		}
		slug := Slugify(title)
		if slug == "" {
			return nil, validationf("title does not yield a usable slug")
		}
		if slug != post.Slug {
			if taken, err := s.slugTaken(slug, post.ID); err != nil {
				return nil, err
			} else if taken {
				return nil, &ConflictError{Message: "a post with this slug already exists"}
			}
		}
		post.Title = title
		post.Slug = slug
	}

	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, validationf("content is required")
		}
		post.Content = *patch.Content
		post.ReadTime = ReadTime(*patch.Content)
	}

	if patch.CategoryID != nil {
		var category db.Category
		if err := s.db.First(&category, *patch.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("category not found")
			}
			return nil, err
		}
		post.CategoryID = category.ID
	}

	if patch.Status != nil {
		if !validPostStatus(*patch.Status) {
			return nil, validationf("invalid status %q", *patch.Status)
		}
		if *patch.Status == db.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.Status = *patch.Status
	}

	if patch.Description != nil {
		post.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.Tags != nil {
		post.Tags = *patch.Tags
	}
	if patch.FeaturedImage != nil {
		post.FeaturedImage = *patch.FeaturedImage
	}
	if patch.ImageURL != nil {
		post.ImageURL = *patch.ImageURL
	}
	if patch.IsDownloadable != nil {
		post.IsDownloadable = *patch.IsDownloadable
	}
	if patch.FontSettings != nil {
		post.FontSettings = applyFontDefaults(patch.FontSettings)
	}

	if err := s.db.Save(&post).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "a post with this slug already exists"}
		}
		return nil, err
	}

	return s.Get(post.ID)
}

// Delete removes a post and cascades deletion of its comments. The
// cascade is sequential and best effort: a failure is reported but
// already-deleted comments stay deleted.
func (s *PostService) Delete(id uint, actor Actor) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("post")
		}
		return err
	}

	if err := authorizeOwner(actor, post.AuthorID); err != nil {
		return err
	}

	if err := s.db.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
		return err
	}

	return s.db.Delete(&db.Post{}, post.ID).Error
}

// RecordDownload atomically increments the download counter. The guard
// lives in the WHERE clause so the check and the increment are a single
// store operation.
func (s *PostService) RecordDownload(id uint) error {
	res := s.db.Model(&db.Post{}).
		Where("id = ? AND status = ? AND is_downloadable = ?", id, db.PostStatusPublished, true).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("post")
		}
		return err
	}
	return &StateError{Message: "post is not available for download"}
}

// Get fetches a post by id with category and author preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post")
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug fetches a published post by its slug.
func (s *PostService) GetPublishedBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Author").
		Where("slug = ? AND status = ?", slug, db.PostStatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post")
		}
		return nil, err
	}
	return &post, nil
}

// List provides paginated posts. Published listings sort by publish
// time, everything else by creation time.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	query := s.db.Model(&db.Post{})
	query = s.applyFilters(query, filter)

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	orderBy := "posts.created_at desc"
	if filter.Status == db.PostStatusPublished {
		orderBy = "posts.published_at desc, posts.id desc"
	}

	offset := (result.Page - 1) * result.PerPage

	var posts []db.Post
	dataQuery := s.db.Model(&db.Post{}).Preload("Category").Preload("Author")
	dataQuery = s.applyFilters(dataQuery, filter)
	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = posts
	return result, nil
}

// ListByAuthor returns all of an author's posts, newest first.
func (s *PostService) ListByAuthor(authorID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Category").
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AuthorStats 汇总作者的发布数量与累计下载量，供公开档案页使用。
type AuthorStats struct {
	PublishedPosts int64
	TotalDownloads int64
}

// StatsForAuthor aggregates published post and download counts.
func (s *PostService) StatsForAuthor(authorID uint) (*AuthorStats, error) {
	stats := &AuthorStats{}
	if err := s.db.Model(&db.Post{}).
		Where("author_id = ? AND status = ?", authorID, db.PostStatusPublished).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}

	var total *int64
	if err := s.db.Model(&db.Post{}).
		Where("author_id = ? AND status = ?", authorID, db.PostStatusPublished).
		Select("SUM(download_count)").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	if total != nil {
		stats.TotalDownloads = *total
	}
	return stats, nil
}

// CountByStatus returns the number of posts in the given status; an
// empty status counts everything.
func (s *PostService) CountByStatus(status string) (int64, error) {
	query := s.db.Model(&db.Post{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Recent returns the latest posts for the admin dashboard.
func (s *PostService) Recent(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []db.Post
	if err := s.db.Preload("Category").Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) slugTaken(slug string, excludeID uint) (bool, error) {
	query := s.db.Model(&db.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.CategorySlug != "" {
		subQuery := s.db.Model(&db.Category{}).
			Select("id").
			Where("slug = ?", filter.CategorySlug)
		query = query.Where("posts.category_id IN (?)", subQuery)
	}

	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}

	return query
}

package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// CommentService owns comment threads and the moderation gate that
// controls public visibility.
type CommentService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{
		db:        gdb,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// CommentInput represents a publicly submitted comment.
type CommentInput struct {
	PostID      uint
	AuthorName  string
	AuthorEmail string
	UserID      *uint
	Content     string
	ParentID    *uint
}

// CommentEcho is the minimal public response to a submission; it never
// exposes the approval flag or other moderation metadata.
type CommentEcho struct {
	ID         uint      `json:"id"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentFilter describes filters for the admin comment listing.
type CommentFilter struct {
	Status  string // "approved", "pending" or empty
	PostID  uint
	Page    int
	PerPage int
}

// CommentListResult aggregates paginated moderation data.
type CommentListResult struct {
	Comments   []db.Comment
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// CommentStats 汇总评论审核状态的统计数据。
type CommentStats struct {
	Total     int64
	Approved  int64
	Pending   int64
	ThisMonth int64
}

// Submit creates an unapproved comment. A reply must reference an
// existing comment on the same post; the reply list itself is the set
// of child rows, so the append is the row insert.
func (s *CommentService) Submit(input CommentInput) (*CommentEcho, error) {
	name := strings.TrimSpace(input.AuthorName)
	if name == "" {
		return nil, validationf("author name is required")
	}
	content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
	if content == "" {
		return nil, validationf("comment content is required")
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post")
		}
		return nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.Where("id = ? AND post_id = ?", *input.ParentID, post.ID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("parent comment")
			}
			return nil, err
		}
	}

	comment := db.Comment{
		PostID:      post.ID,
		AuthorName:  name,
		AuthorEmail: strings.ToLower(strings.TrimSpace(input.AuthorEmail)),
		UserID:      input.UserID,
		Content:     content,
		ParentID:    input.ParentID,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return &CommentEcho{
		ID:         comment.ID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

// ListPublic returns approved top-level comments for a post, newest
// first, each carrying its approved replies oldest first.
func (s *CommentService) ListPublic(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Where("post_id = ? AND is_approved = ? AND parent_id IS NULL", postID, true).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_approved = ?", true).Order("created_at asc")
		}).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// List provides paginated comments for moderation with optional status
// and post filters.
func (s *CommentService) List(filter CommentFilter) (*CommentListResult, error) {
	result := &CommentListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.Comment{})
	switch filter.Status {
	case "approved":
		query = query.Where("is_approved = ?", true)
	case "pending":
		query = query.Where("is_approved = ?", false)
	}
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Preload("Post").
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Comments).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// Moderate flips the approval flag. Rejection does not delete and the
// decision never cascades to replies.
func (s *CommentService) Moderate(commentID uint, approve bool) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("comment")
		}
		return nil, err
	}

	comment.IsApproved = approve
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Remove deletes a comment and its direct replies. Replies do not carry
// reply lists of their own, so one level is the whole subtree. The
// cascade is sequential and best effort.
func (s *CommentService) Remove(commentID uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("comment")
		}
		return err
	}

	// Deleting a child row detaches it from its parent's reply list;
	// the list is derived from parent_id.
	if err := s.db.Where("parent_id = ?", comment.ID).Delete(&db.Comment{}).Error; err != nil {
		return err
	}

	return s.db.Delete(&db.Comment{}, comment.ID).Error
}

// Stats aggregates moderation counters.
func (s *CommentService) Stats() (*CommentStats, error) {
	stats := &CommentStats{}
	if err := s.db.Model(&db.Comment{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Comment{}).Where("is_approved = ?", true).Count(&stats.Approved).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Comment{}).Where("is_approved = ?", false).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&db.Comment{}).
		Where("created_at >= ?", startOfMonth).
		Count(&stats.ThisMonth).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

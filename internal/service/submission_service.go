package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// SubmissionService owns the review pipeline for reader submissions and
// their conversion into posts.
type SubmissionService struct {
	db       *gorm.DB
	posts    *PostService
	notifier Notifier
}

// NewSubmissionService creates a SubmissionService instance. The
// notifier may be nil, in which case no confirmation mail is sent.
func NewSubmissionService(gdb *gorm.DB, posts *PostService, notifier Notifier) *SubmissionService {
	return &SubmissionService{db: gdb, posts: posts, notifier: notifier}
}

// SubmissionInput represents a publicly submitted piece.
type SubmissionInput struct {
	Title       string
	Content     string
	AuthorName  string
	AuthorEmail string
	Category    string
}

// SubmissionFilter describes filters for the editorial listing.
type SubmissionFilter struct {
	Status   string
	Category string
	Page     int
	PerPage  int
}

// SubmissionListResult aggregates paginated review data.
type SubmissionListResult struct {
	Submissions []db.Submission
	Total       int64
	TotalPages  int
	Page        int
	PerPage     int
}

// ConvertInput carries the editorial choices made when turning an
// approved submission into a post.
type ConvertInput struct {
	CategoryID     uint
	Tags           []string
	IsDownloadable bool
}

const excerptRunes = 200

func validSubmissionCategory(category string) bool {
	for _, c := range db.SubmissionCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Submit creates a pending submission and fires the confirmation mail.
func (s *SubmissionService) Submit(input SubmissionInput) (*db.Submission, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	name := strings.TrimSpace(input.AuthorName)
	email := strings.ToLower(strings.TrimSpace(input.AuthorEmail))

	if title == "" {
		return nil, validationf("title is required")
	}
	if content == "" {
		return nil, validationf("content is required")
	}
	if name == "" {
		return nil, validationf("author name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationf("a valid author email is required")
	}
	if !validSubmissionCategory(input.Category) {
		return nil, validationf("invalid submission category %q", input.Category)
	}

	submission := db.Submission{
		Title:       title,
		Content:     content,
		AuthorName:  name,
		AuthorEmail: email,
		Category:    input.Category,
		Status:      db.SubmissionStatusPending,
		SubmittedAt: time.Now(),
	}

	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.SendSubmissionReceived(name, email, title)
	}

	return &submission, nil
}

// Review records an editorial decision: reviewer, time, optional notes
// and the new state. Reviewing again overwrites the previous decision.
func (s *SubmissionService) Review(id uint, reviewer Actor, decision, notes string) (*db.Submission, error) {
	if decision != db.SubmissionStatusApproved && decision != db.SubmissionStatusRejected {
		return nil, validationf("decision must be approved or rejected")
	}

	var submission db.Submission
	if err := s.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("submission")
		}
		return nil, err
	}

	now := time.Now()
	submission.Status = decision
	submission.ReviewedByID = &reviewer.UserID
	submission.ReviewedAt = &now
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		submission.Notes = trimmed
	}

	if err := s.db.Save(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ConvertToPost turns an approved submission into a draft post authored
// by the reviewer. The two store writes are an explicit saga: if the
// post is created but the submission cannot be stamped, the caller gets
// a PartialConversionError carrying the post id.
func (s *SubmissionService) ConvertToPost(id uint, reviewer Actor, input ConvertInput) (*db.Post, error) {
	var submission db.Submission
	if err := s.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("submission")
		}
		return nil, err
	}

	if submission.ConvertedPostID != nil {
		return nil, &StateError{Message: "submission has already been converted"}
	}
	if submission.Status != db.SubmissionStatusApproved {
		return nil, &StateError{Message: "only approved submissions can be converted to posts"}
	}

	post, err := s.posts.Create(reviewer, PostInput{
		Title:          submission.Title,
		Content:        submission.Content,
		Excerpt:        excerpt(submission.Content),
		CategoryID:     input.CategoryID,
		Tags:           input.Tags,
		Status:         db.PostStatusDraft,
		IsDownloadable: input.IsDownloadable,
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Submission{}).
		Where("id = ?", submission.ID).
		Update("converted_post_id", post.ID).Error; err != nil {
		return post, &PartialConversionError{PostID: post.ID, Err: err}
	}

	return post, nil
}

// Get fetches a submission with its reviewer preloaded.
func (s *SubmissionService) Get(id uint) (*db.Submission, error) {
	var submission db.Submission
	if err := s.db.Preload("ReviewedBy").First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("submission")
		}
		return nil, err
	}
	return &submission, nil
}

// List provides paginated submissions, newest first.
func (s *SubmissionService) List(filter SubmissionFilter) (*SubmissionListResult, error) {
	result := &SubmissionListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.Submission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Preload("ReviewedBy").
		Order("submitted_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Submissions).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// CountPending returns the size of the review queue.
func (s *SubmissionService) CountPending() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Submission{}).
		Where("status = ?", db.SubmissionStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

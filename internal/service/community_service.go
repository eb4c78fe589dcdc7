package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// CommunityService manages the reader community roster.
type CommunityService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewCommunityService creates a CommunityService instance.
func NewCommunityService(gdb *gorm.DB, notifier Notifier) *CommunityService {
	return &CommunityService{db: gdb, notifier: notifier}
}

// MemberFilter describes filters for the member listing.
type MemberFilter struct {
	Search  string
	Page    int
	PerPage int
}

// MemberListResult aggregates paginated member data.
type MemberListResult struct {
	Members    []db.CommunityMember
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// CommunityStats 汇总社区成员与评论审核的统计数据。
type CommunityStats struct {
	TotalMembers        int64
	NewMembersThisMonth int64
}

// Join registers a community member and fires the welcome mail.
func (s *CommunityService) Join(name, email string) (*db.CommunityMember, error) {
	trimmedName := strings.TrimSpace(name)
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	if trimmedName == "" {
		return nil, validationf("name is required")
	}
	if trimmedEmail == "" || !strings.Contains(trimmedEmail, "@") {
		return nil, validationf("a valid email is required")
	}

	var count int64
	if err := s.db.Model(&db.CommunityMember{}).
		Where("email = ?", trimmedEmail).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "email already registered"}
	}

	member := db.CommunityMember{
		Name:     trimmedName,
		Email:    trimmedEmail,
		JoinedAt: time.Now(),
		IsActive: true,
	}

	if err := s.db.Create(&member).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "email already registered"}
		}
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.SendWelcome(trimmedName, trimmedEmail)
	}

	return &member, nil
}

// List provides paginated members with an optional name/email search.
func (s *CommunityService) List(filter MemberFilter) (*MemberListResult, error) {
	result := &MemberListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.CommunityMember{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.Order("joined_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Members).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// SetActive updates a member's active flag.
func (s *CommunityService) SetActive(id uint, active bool) (*db.CommunityMember, error) {
	var member db.CommunityMember
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("member")
		}
		return nil, err
	}

	member.IsActive = active
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Recent returns the newest active members for the dashboard.
func (s *CommunityService) Recent(limit int) ([]db.CommunityMember, error) {
	if limit <= 0 {
		limit = 5
	}
	var members []db.CommunityMember
	if err := s.db.Where("is_active = ?", true).
		Order("joined_at desc").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Stats aggregates membership counters.
func (s *CommunityService) Stats() (*CommunityStats, error) {
	stats := &CommunityStats{}
	if err := s.db.Model(&db.CommunityMember{}).
		Where("is_active = ?", true).
		Count(&stats.TotalMembers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&db.CommunityMember{}).
		Where("is_active = ? AND joined_at >= ?", true, startOfMonth).
		Count(&stats.NewMembersThisMonth).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

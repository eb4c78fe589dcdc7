package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService wraps account management and credential checks.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// UserInput represents fields accepted when creating an account.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// ProfilePatch carries partial profile updates.
type ProfilePatch struct {
	Name         *string
	Bio          *string
	ProfileImage *string
}

// AuthorFilter describes filters for the author listing.
type AuthorFilter struct {
	Search  string
	Page    int
	PerPage int
}

// AuthorWithStats pairs an author with their post counters.
type AuthorWithStats struct {
	User           db.User
	TotalPosts     int64
	PublishedPosts int64
}

// AuthorListResult aggregates paginated author data.
type AuthorListResult struct {
	Authors    []AuthorWithStats
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// Authenticate verifies credentials for an active account.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", trimmed).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PermissionError{Message: "invalid email or password"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &PermissionError{Message: "account is deactivated"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &PermissionError{Message: "invalid email or password"}
	}

	return &user, nil
}

// Create adds an account. Admins may create authors; only a super
// admin may create another admin. No one creates super admins here.
func (s *UserService) Create(actor Actor, input UserInput) (*db.User, error) {
	if !actor.CanModerate() {
		return nil, &PermissionError{Message: "insufficient permissions"}
	}

	role := input.Role
	if role == "" {
		role = db.RoleAuthor
	}
	switch role {
	case db.RoleAuthor:
	case db.RoleAdmin:
		if actor.Role != db.RoleSuperAdmin {
			return nil, &PermissionError{Message: "only a super admin can create admins"}
		}
	default:
		return nil, validationf("invalid role %q", role)
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, validationf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationf("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, validationf("password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "email already in use"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Name:        name,
		Email:       email,
		Password:    string(hashed),
		Role:        role,
		IsActive:    true,
		CreatedByID: &actor.UserID,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "email already in use"}
		}
		return nil, err
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// ListAdmins returns admin and super admin accounts, newest first.
func (s *UserService) ListAdmins() ([]db.User, error) {
	var users []db.User
	if err := s.db.Where("role IN ?", []string{db.RoleAdmin, db.RoleSuperAdmin}).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListAuthors provides paginated authors with their post counters.
func (s *UserService) ListAuthors(filter AuthorFilter) (*AuthorListResult, error) {
	result := &AuthorListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}

	query := s.db.Model(&db.User{}).Where("role = ?", db.RoleAuthor)
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	var authors []db.User
	if err := query.Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&authors).Error; err != nil {
		return nil, err
	}

	for _, author := range authors {
		entry := AuthorWithStats{User: author}
		if err := s.db.Model(&db.Post{}).
			Where("author_id = ?", author.ID).
			Count(&entry.TotalPosts).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&db.Post{}).
			Where("author_id = ? AND status = ?", author.ID, db.PostStatusPublished).
			Count(&entry.PublishedPosts).Error; err != nil {
			return nil, err
		}
		result.Authors = append(result.Authors, entry)
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	return result, nil
}

// UpdateProfile applies profile changes to the caller's own account.
func (s *UserService) UpdateProfile(userID uint, patch ProfilePatch) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationf("name is required")
		}
		user.Name = name
	}
	if patch.Bio != nil {
		user.Bio = strings.TrimSpace(*patch.Bio)
	}
	if patch.ProfileImage != nil {
		user.ProfileImage = *patch.ProfileImage
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate disables an account. Super admins are untouchable and the
// actor cannot deactivate themselves.
func (s *UserService) Deactivate(id uint, actor Actor) error {
	user, err := s.guardedTarget(id, actor)
	if err != nil {
		return err
	}

	user.IsActive = false
	return s.db.Save(user).Error
}

// Delete removes an account under the same guards as Deactivate.
func (s *UserService) Delete(id uint, actor Actor) error {
	user, err := s.guardedTarget(id, actor)
	if err != nil {
		return err
	}
	return s.db.Delete(&db.User{}, user.ID).Error
}

func (s *UserService) guardedTarget(id uint, actor Actor) (*db.User, error) {
	if actor.Role != db.RoleSuperAdmin {
		return nil, &PermissionError{Message: "insufficient permissions"}
	}

	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}

	if user.Role == db.RoleSuperAdmin {
		return nil, &PermissionError{Message: "cannot modify a super admin"}
	}
	if user.ID == actor.UserID {
		return nil, &PermissionError{Message: "cannot modify yourself"}
	}
	return &user, nil
}

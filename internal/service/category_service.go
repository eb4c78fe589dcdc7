package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// CategoryService wraps category administration. Categories are
// consumed by the post lifecycle as a foreign-key existence check.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// CategoryInput represents fields accepted when creating a category.
type CategoryInput struct {
	Name        string
	Description string
	SortOrder   int
}

// CategoryPatch carries partial updates; nil fields are left untouched.
type CategoryPatch struct {
	Name        *string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

// ListActive returns active categories in display order.
func (s *CategoryService) ListActive() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Where("is_active = ?", true).
		Order("sort_order asc, name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetActiveBySlug fetches an active category by slug.
func (s *CategoryService) GetActiveBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}
	return &category, nil
}

// Create adds a category; the name must be unique.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}

	var count int64
	if err := s.db.Model(&db.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "category already exists"}
	}

	category := db.Category{
		Name:        name,
		Slug:        Slugify(name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}

	if err := s.db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "category already exists"}
		}
		return nil, err
	}
	return &category, nil
}

// Update applies the patch; a renamed category keeps name uniqueness
// and re-derives its slug.
func (s *CategoryService) Update(id uint, patch CategoryPatch) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationf("name is required")
		}
		if name != category.Name {
			var count int64
			if err := s.db.Model(&db.Category{}).
				Where("name = ? AND id <> ?", name, category.ID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, &ConflictError{Message: "category name already exists"}
			}
			category.Name = name
			category.Slug = Slugify(name)
		}
	}

	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.SortOrder != nil {
		category.SortOrder = *patch.SortOrder
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}

	if err := s.db.Save(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Message: "category name already exists"}
		}
		return nil, err
	}
	return &category, nil
}

// Delete removes a category by id.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("category")
		}
		return err
	}
	return s.db.Delete(&db.Category{}, category.ID).Error
}

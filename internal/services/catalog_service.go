// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

// CatalogService manages the category tree and the material master data
// listings hang off.
type CatalogService struct {
	db *gorm.DB
}

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	NameAr      string     `json:"name_ar" validate:"omitempty,max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type MaterialRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	NameAr      string    `json:"name_ar" validate:"omitempty,max=100"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	DefaultUnit string    `json:"default_unit" validate:"omitempty,unit"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListCategories(activeOnly bool) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// CategoryTree returns root categories with their children preloaded.
func (s *CatalogService) CategoryTree() ([]models.Category, error) {
	var roots []models.Category
	if err := s.db.Where("parent_id IS NULL AND is_active = ?", true).
		Preload("Children", "is_active = ?", true).
		Order("name asc").
		Find(&roots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch category tree: %w", err)
	}
	return roots, nil
}

func (s *CatalogService) GetCategory(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CatalogService) CreateCategory(req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := s.db.First(&parent, *req.ParentID).Error; err != nil {
			return nil, NewValidationError("parent_id", "Parent category does not exist.")
		}
	}

	category := &models.Category{
		Name:        req.Name,
		NameAr:      req.NameAr,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(categoryID uuid.UUID, req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.NameAr = req.NameAr
	category.Description = req.Description
	category.ParentID = req.ParentID
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(categoryID uuid.UUID) error {
	result := s.db.Delete(&models.Category{}, categoryID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) ListMaterials(params utils.PaginationParams, categoryID *uuid.UUID) ([]models.Material, int64, error) {
	query := s.db.Model(&models.Material{}).
		Preload("Category").
		Where("is_active = ?", true)

	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR name_ar LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count materials: %w", err)
	}

	allowedSortFields := []string{"created_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var materials []models.Material
	if err := query.Find(&materials).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch materials: %w", err)
	}
	return materials, total, nil
}

func (s *CatalogService) GetMaterial(materialID uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := s.db.Preload("Category").First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &material, nil
}

func (s *CatalogService) CreateMaterial(req *MaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		return nil, NewValidationError("category_id", "Category does not exist.")
	}

	unit := req.DefaultUnit
	if unit == "" {
		unit = "kg"
	}

	material := &models.Material{
		Name:        req.Name,
		NameAr:      req.NameAr,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		DefaultUnit: unit,
		IsActive:    true,
	}
	if req.IsActive != nil {
		material.IsActive = *req.IsActive
	}

	if err := s.db.Create(material).Error; err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return material, nil
}

func (s *CatalogService) UpdateMaterial(materialID uuid.UUID, req *MaterialRequest) (*models.Material, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	material, err := s.GetMaterial(materialID)
	if err != nil {
		return nil, err
	}

	material.Name = req.Name
	material.NameAr = req.NameAr
	material.Description = req.Description
	material.CategoryID = req.CategoryID
	if req.DefaultUnit != "" {
		material.DefaultUnit = req.DefaultUnit
	}
	if req.IsActive != nil {
		material.IsActive = *req.IsActive
	}

	if err := s.db.Save(material).Error; err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return material, nil
}

func (s *CatalogService) DeleteMaterial(materialID uuid.UUID) error {
	result := s.db.Delete(&models.Material{}, materialID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete material: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

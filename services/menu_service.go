package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"qr-restaurant/models"
	"qr-restaurant/repositories"
	"qr-restaurant/utils"
)

type MenuService struct {
	menuRepo *repositories.MenuRepository
}

func NewMenuService() *MenuService {
	return &MenuService{
		menuRepo: repositories.NewMenuRepository(),
	}
}

func (s *MenuService) GetActiveCategories(ctx context.Context) ([]models.Category, error) {
	return s.menuRepo.GetActiveCategories(ctx)
}

func (s *MenuService) GetCategoryByID(ctx context.Context, id int) (*models.Category, error) {
	return s.menuRepo.GetCategoryByID(ctx, id)
}

func (s *MenuService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := s.menuRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, id int, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.menuRepo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.menuRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *MenuService) DeleteCategory(ctx context.Context, id int) error {
	if _, err := s.menuRepo.GetCategoryByID(ctx, id); err != nil {
		return err
	}
	return s.menuRepo.DeleteCategory(ctx, id)
}

func (s *MenuService) GetAvailableItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	return s.menuRepo.GetAvailableItems(ctx, filter)
}

func (s *MenuService) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	return s.menuRepo.GetItemByID(ctx, id)
}

func (s *MenuService) CreateItem(ctx context.Context, req models.CreateMenuItemRequest, imagePath string) (*models.MenuItem, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("%w: invalid price", models.ErrInvalidInput)
	}

	if _, err := s.menuRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	prepTime := req.PreparationTime
	if prepTime <= 0 {
		prepTime = 15
	}

	item := &models.MenuItem{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           price,
		Available:       true,
		IsPopular:       req.IsPopular,
		PreparationTime: prepTime,
	}
	if imagePath != "" {
		item.Image = &imagePath
	}

	if err := s.menuRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id int, req models.UpdateMenuItemRequest, imagePath string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID > 0 {
		if _, err := s.menuRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = req.CategoryID
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: invalid price", models.ErrInvalidInput)
		}
		item.Price = price
	}
	if req.PreparationTime != nil {
		item.PreparationTime = *req.PreparationTime
	}
	if req.IsPopular != nil {
		item.IsPopular = *req.IsPopular
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if imagePath != "" {
		if item.Image != nil {
			utils.DeleteFile(*item.Image)
		}
		item.Image = &imagePath
	}

	if err := s.menuRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id int) error {
	item, err := s.menuRepo.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Image != nil {
		utils.DeleteFile(*item.Image)
	}
	return s.menuRepo.DeleteItem(ctx, id)
}

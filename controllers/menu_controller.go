package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qr-restaurant/models"
	"qr-restaurant/services"
	"qr-restaurant/utils"
)

type MenuController struct {
	menuService *services.MenuService
}

func NewMenuController() *MenuController {
	return &MenuController{
		menuService: services.NewMenuService(),
	}
}

// @Summary Get categories
// @Description Get all active menu categories
// @Tags Menu
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *MenuController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.menuService.GetActiveCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    categories,
	})
}

// @Summary Get menu
// @Description Get available menu items with optional filters
// @Tags Menu
// @Produce json
// @Param category query int false "Filter by category ID"
// @Param search query string false "Search by name"
// @Param popular query bool false "Only popular items"
// @Success 200 {object} models.Response
// @Router /menu [get]
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.Query("category"))
	filter := models.MenuFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Popular:    c.Query("popular") == "true",
	}

	items, err := ctrl.menuService.GetAvailableItems(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    items,
	})
}

// @Summary Get menu item
// @Description Get a single menu item
// @Tags Menu
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /menu/{id} [get]
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	item, err := ctrl.menuService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    item,
	})
}

// @Summary Create category
// @Description Create a menu category (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.Response
// @Router /admin/categories [post]
func (ctrl *MenuController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	category, err := ctrl.menuService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// @Summary Update category
// @Description Update a menu category (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.UpdateCategoryRequest true "Category data"
// @Success 200 {object} models.Response
// @Router /admin/categories/{id} [patch]
func (ctrl *MenuController) UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	category, err := ctrl.menuService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// @Summary Delete category
// @Description Delete a menu category and its items (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Response
// @Router /admin/categories/{id} [delete]
func (ctrl *MenuController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.menuService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Category deleted successfully",
	})
}

// @Summary Create menu item
// @Description Create a menu item with optional image (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param category_id formData int true "Category ID"
// @Param name formData string true "Name"
// @Param price formData string true "Price"
// @Param description formData string false "Description"
// @Param preparation_time formData int false "Preparation time in minutes"
// @Param is_popular formData bool false "Popular flag"
// @Param image formData file false "Item image"
// @Success 201 {object} models.Response
// @Router /admin/menu [post]
func (ctrl *MenuController) CreateMenuItem(c *gin.Context) {
	var req models.CreateMenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	imagePath := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		path, err := utils.UploadFile(c, fileHeader, "items")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		imagePath = path
	}

	item, err := ctrl.menuService.CreateItem(c.Request.Context(), req, imagePath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Menu item created successfully",
		Data:    item,
	})
}

// @Summary Update menu item
// @Description Update a menu item (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.Response
// @Router /admin/menu/{id} [patch]
func (ctrl *MenuController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateMenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	imagePath := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		path, err := utils.UploadFile(c, fileHeader, "items")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		imagePath = path
	}

	item, err := ctrl.menuService.UpdateItem(c.Request.Context(), id, req, imagePath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Menu item updated successfully",
		Data:    item,
	})
}

// @Summary Delete menu item
// @Description Delete a menu item (Admin)
// @Tags Admin - Menu
// @Security BearerAuth
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.Response
// @Router /admin/menu/{id} [delete]
func (ctrl *MenuController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.menuService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Menu item deleted successfully",
	})
}

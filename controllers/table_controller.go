package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qr-restaurant/models"
	"qr-restaurant/services"
)

type TableController struct {
	tableService *services.TableService
}

func NewTableController() *TableController {
	return &TableController{
		tableService: services.NewTableService(),
	}
}

// @Summary Get table by number
// @Description Look up an active table by its printed number (QR scan entry point)
// @Tags Tables
// @Produce json
// @Param number path int true "Table number"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /tables/number/{number} [get]
func (ctrl *TableController) GetTableByNumber(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	table, err := ctrl.tableService.GetActiveTableByNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    table,
	})
}

// @Summary Get all tables
// @Description List tables, optionally active only (Admin)
// @Tags Admin - Tables
// @Security BearerAuth
// @Produce json
// @Param is_active query bool false "Only active tables"
// @Success 200 {object} models.Response
// @Router /admin/tables [get]
func (ctrl *TableController) GetAllTables(c *gin.Context) {
	activeOnly := c.Query("is_active") == "true"

	tables, err := ctrl.tableService.GetAllTables(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    tables,
	})
}

// @Summary Create table
// @Description Create a table (Admin)
// @Tags Admin - Tables
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param table body models.CreateTableRequest true "Table data"
// @Success 201 {object} models.Response
// @Router /admin/tables [post]
func (ctrl *TableController) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	table, err := ctrl.tableService.CreateTable(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Table created successfully",
		Data:    table,
	})
}

// @Summary Update table
// @Description Update a table (Admin)
// @Tags Admin - Tables
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Table ID"
// @Param table body models.UpdateTableRequest true "Table data"
// @Success 200 {object} models.Response
// @Router /admin/tables/{id} [patch]
func (ctrl *TableController) UpdateTable(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	table, err := ctrl.tableService.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Table updated successfully",
		Data:    table,
	})
}

// @Summary Delete table
// @Description Delete a table (Admin)
// @Tags Admin - Tables
// @Security BearerAuth
// @Produce json
// @Param id path int true "Table ID"
// @Success 200 {object} models.Response
// @Router /admin/tables/{id} [delete]
func (ctrl *TableController) DeleteTable(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Table deleted successfully",
	})
}

// @Summary Generate table QR code
// @Description Generate (or regenerate) the QR code PNG for a table (Admin)
// @Tags Admin - Tables
// @Security BearerAuth
// @Produce json
// @Param id path int true "Table ID"
// @Success 200 {object} models.Response
// @Router /admin/tables/{id}/qr [post]
func (ctrl *TableController) GenerateQR(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	table, err := ctrl.tableService.GenerateQR(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "QR code generated successfully",
		Data:    table,
	})
}

package services

import (
	"context"
	"fmt"

	"qr-restaurant/config"
	"qr-restaurant/models"
	"qr-restaurant/repositories"
	"qr-restaurant/utils"
)

type TableService struct {
	tableRepo *repositories.TableRepository
}

func NewTableService() *TableService {
	return &TableService{
		tableRepo: repositories.NewTableRepository(),
	}
}

func (s *TableService) GetAllTables(ctx context.Context, activeOnly bool) ([]models.Table, error) {
	return s.tableRepo.GetAll(ctx, activeOnly)
}

func (s *TableService) GetTableByID(ctx context.Context, id int) (*models.Table, error) {
	return s.tableRepo.GetByID(ctx, id)
}

// GetActiveTableByNumber looks a table up by its printed number, as
// scanned from the QR code. Inactive tables are treated as missing.
func (s *TableService) GetActiveTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	return s.tableRepo.GetActiveByNumber(ctx, number)
}

func (s *TableService) CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.Table, error) {
	existing, _ := s.tableRepo.GetByNumber(ctx, req.Number)
	if existing != nil {
		return nil, fmt.Errorf("%w: table number %d already exists", models.ErrInvalidInput, req.Number)
	}

	table := &models.Table{
		Number:   req.Number,
		Name:     req.Name,
		Capacity: req.Capacity,
		IsActive: true,
	}
	if table.Name == "" {
		table.Name = fmt.Sprintf("Table %d", table.Number)
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}

	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *TableService) UpdateTable(ctx context.Context, id int, req models.UpdateTableRequest) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		table.Name = req.Name
	}
	if req.Capacity != nil && *req.Capacity > 0 {
		table.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *TableService) DeleteTable(ctx context.Context, id int) error {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if table.QRCode != nil {
		utils.DeleteFile(*table.QRCode)
	}
	return s.tableRepo.Delete(ctx, id)
}

// GenerateQR renders the table's QR code PNG, pointing customers at
// the per-table menu URL, and stores its path on the table.
func (s *TableService) GenerateQR(ctx context.Context, id int) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	qrPath, err := utils.GenerateTableQR(config.AppConfig.BaseURL, table.Number)
	if err != nil {
		return nil, fmt.Errorf("generating QR code: %w", err)
	}

	if table.QRCode != nil && *table.QRCode != qrPath {
		utils.DeleteFile(*table.QRCode)
	}
	table.QRCode = &qrPath

	if err := s.tableRepo.UpdateQRCode(ctx, id, qrPath); err != nil {
		return nil, err
	}
	return table, nil
}

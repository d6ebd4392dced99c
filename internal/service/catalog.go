package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nook-pos/internal/client"
	"nook-pos/internal/model"
	"nook-pos/internal/pricing"
	"nook-pos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCategory       = "Uncategorized"
	DefaultImportCategory = "Other"

	aiDisabledText    = "Set GEMINI_API_KEY to enable AI generated descriptions."
	aiUnavailableText = "Could not generate a description, please try again later."
)

var csvHeader = []string{"id", "name", "price", "costPrice", "discountPrice", "stock", "category", "description"}

type CatalogService interface {
	List(ctx context.Context, category, search string) ([]*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
	ExportCSV(ctx context.Context, w io.Writer) error
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	GenerateDescription(ctx context.Context, name, category string) (string, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	aiClient    client.AIClient
	logger      *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	aiClient client.AIClient,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		aiClient:    aiClient,
		logger:      logger,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context, category, search string) ([]*model.Product, error) {
	return s.productRepo.List(ctx, category, search)
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if _, err := s.productRepo.FindByID(ctx, product.ID); err != nil {
		return nil, err
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.List(ctx, "", "")
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range products {
		var cost int64
		if p.CostPrice != nil {
			cost = *p.CostPrice
		}
		discount := ""
		if p.DiscountPrice != nil {
			discount = strconv.FormatInt(*p.DiscountPrice, 10)
		}

		record := []string{
			p.ID,
			p.Name,
			strconv.FormatInt(p.Price, 10),
			strconv.FormatInt(cost, 10),
			discount,
			strconv.FormatInt(p.Stock, 10),
			p.Category,
			p.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV validates every row before inserting any of them.
func (s *catalogServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, newValidationError("read csv header: %v", err)
	}

	var products []*model.Product
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, newValidationError("read csv: %v", err)
		}
		line, _ := cr.FieldPos(0)

		p, err := parseProductRecord(record)
		if err != nil {
			return 0, newValidationError("line %d: %v", line, err)
		}
		if err := validateProduct(p); err != nil {
			return 0, newValidationError("line %d: %v", line, err)
		}
		products = append(products, p)
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return 0, fmt.Errorf("import products: %w", err)
	}

	s.logger.Info("catalog imported", zap.Int("count", len(products)))
	return len(products), nil
}

func (s *catalogServiceImpl) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", newValidationError("product name is required")
	}
	if category == "" {
		category = "Items"
	}

	text, err := s.aiClient.GenerateDescription(ctx, name, category)
	if errors.Is(err, client.ErrAIDisabled) {
		return aiDisabledText, nil
	}
	if err != nil {
		s.logger.Warn("ai description failed", zap.String("name", name), zap.Error(err))
		return aiUnavailableText, nil
	}
	return text, nil
}

func parseProductRecord(record []string) (*model.Product, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	p := &model.Product{
		ID:          field(0),
		Name:        field(1),
		Category:    field(6),
		Description: field(7),
	}
	if p.ID == "" {
		p.ID = "imp-" + uuid.NewString()
	}
	if p.Category == "" {
		p.Category = DefaultImportCategory
	}

	price, err := parseAmount(field(2))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	p.Price = price

	stock, err := parseAmount(field(5))
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	p.Stock = stock

	if v := field(3); v != "" {
		cost, err := parseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("costPrice: %w", err)
		}
		p.CostPrice = &cost
	}
	if v := field(4); v != "" {
		discount, err := parseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("discountPrice: %w", err)
		}
		p.DiscountPrice = &discount
	}

	return p, nil
}

func parseAmount(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func validateProduct(p *model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return newValidationError("name is required")
	}
	if !pricing.ValidUnitPrice(p.Price) {
		return newValidationError("price must be between 1 and %d", pricing.MaxUnitPrice)
	}
	if p.Stock < 0 {
		return newValidationError("stock cannot be negative")
	}
	if p.CostPrice != nil && *p.CostPrice < 0 {
		return newValidationError("cost price cannot be negative")
	}
	if p.DiscountPrice != nil {
		if *p.DiscountPrice == 0 {
			p.DiscountPrice = nil
		} else if *p.DiscountPrice < 0 || *p.DiscountPrice >= p.Price {
			return newValidationError("discount price must be between 0 and the list price")
		}
	}
	return nil
}

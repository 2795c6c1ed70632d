package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Costo y existencia se manejan vía los motores.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	upper     cases.Caser
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movements repository.StockMovementRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, movements: movements, upper: cases.Upper(language.Und)}
}

// NormalizeSKU quita espacios y pasa a mayúsculas el código.
func (uc *ProductUseCase) NormalizeSKU(sku string) string {
	return uc.upper.String(strings.TrimSpace(sku))
}

// Create crea un nuevo producto. El costo queda vacío hasta la primera recepción y la
// existencia inicial queda como línea base del libro de stock.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := uc.NormalizeSKU(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.InitialQuantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Name:            name,
		SKU:             sku,
		Category:        strings.TrimSpace(in.Category),
		Price:           in.Price,
		Quantity:        in.InitialQuantity,
		InitialQuantity: in.InitialQuantity,
		MinStock:        in.MinStock,
		ImageURL:        in.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza campos descriptivos. No permite modificar costo ni existencia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	// releer: existencia y costo pudieron cambiar entre la lectura y la escritura
	return uc.GetByID(ctx, id)
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Movements historial del libro de stock, más recientes primero.
func (uc *ProductUseCase) Movements(ctx context.Context, req dto.MovementListRequest) ([]dto.MovementResponse, error) {
	if req.Type != "" && req.Type != entity.MovementTypeIN && req.Type != entity.MovementTypeOUT {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, req.Type)
	}
	dr, err := toDateRange(req.DateRangeRequest)
	if err != nil {
		return nil, err
	}
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID: req.ProductID,
		Type:      req.Type,
		From:      dr.From,
		To:        dr.To,
		Page:      dr.Page,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

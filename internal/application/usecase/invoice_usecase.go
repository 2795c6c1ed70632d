package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// InvoiceUseCase proformas y facturas. Un documento en DRAFT no mueve inventario ni cuentas;
// sólo la conversión de una proforma lo hace, a través del motor.
type InvoiceUseCase struct {
	txRunner     engine.TransactionalUpdate
	invoices     repository.InvoiceRepository
	products     repository.ProductRepository
	converter    *engine.ProformaConverter
	validityDays int
	log          zerolog.Logger
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner engine.TransactionalUpdate,
	reads engine.Repos,
	converter *engine.ProformaConverter,
	validityDays int,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoices:     reads.Invoices,
		products:     reads.Products,
		converter:    converter,
		validityDays: validityDays,
		log:          log,
		now:          time.Now,
	}
}

// Create registra el documento en DRAFT. Las líneas deben apuntar a productos existentes;
// si no traen nombre se toma el del catálogo.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest, performedBy string) (*dto.InvoiceResponse, error) {
	docType := strings.ToUpper(in.Type)
	if docType != entity.InvoiceTypeProforma && docType != entity.InvoiceTypeInvoice {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.ClientName) == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	items := make([]entity.InvoiceItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		name := it.Name
		if name == "" {
			name = p.Name
		}
		items = append(items, entity.InvoiceItem{ProductID: it.ProductID, Name: name, Quantity: it.Quantity, Price: it.Price})
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		Type:       docType,
		Number:     documentNumber(docType, now),
		Date:       now,
		ClientName: strings.TrimSpace(in.ClientName),
		Items:      items,
		Total:      total,
		Status:     entity.InvoiceStatusDraft,
		CreatedAt:  now,
		CreatedBy:  performedBy,
	}
	if docType == entity.InvoiceTypeProforma {
		until := now.AddDate(0, 0, uc.validityDays)
		inv.ValidUntil = &until
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("documento creado")
	return toInvoiceResponse(inv, false), nil
}

// documentNumber PRO-xxxxxx o FAC-xxxxxx con los últimos seis dígitos del instante de creación.
func documentNumber(docType string, now time.Time) string {
	prefix := "FAC"
	if docType == entity.InvoiceTypeProforma {
		prefix = "PRO"
	}
	return fmt.Sprintf("%s-%06d", prefix, now.UnixMilli()%1_000_000)
}

// GetByID obtiene un documento.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv, uc.expired(inv)), nil
}

// List documentos, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.invoices.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv, uc.expired(inv)))
	}
	return out, nil
}

// Convert convierte la proforma en venta.
func (uc *InvoiceUseCase) Convert(ctx context.Context, id string, in dto.ConvertInvoiceRequest, performedBy string) (*dto.SaleResponse, error) {
	sale, err := uc.converter.ConvertProformaToSale(ctx, id, engine.ConvertInput{
		PaymentMethod: strings.ToUpper(in.PaymentMethod),
		AmountPaid:    in.AmountPaid,
		PartnerID:     in.PartnerID,
		PerformedBy:   performedBy,
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Cancel DRAFT → CANCELLED.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, entity.InvoiceStatusCancelled)
}

// MarkSent DRAFT → SENT.
func (uc *InvoiceUseCase) MarkSent(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, entity.InvoiceStatusSent)
}

// transition cambia el estado bajo bloqueo para no competir con una conversión en curso.
func (uc *InvoiceUseCase) transition(ctx context.Context, id, status string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r engine.Repos) error {
		var err error
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		switch inv.Status {
		case entity.InvoiceStatusDraft:
		case entity.InvoiceStatusConverted:
			return domain.ErrAlreadyConverted
		default:
			return domain.ErrInvalidState
		}
		if err := r.Invoices.UpdateStatus(ctx, id, status, ""); err != nil {
			return err
		}
		inv.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Str("status", status).Msg("estado de documento actualizado")
	return toInvoiceResponse(inv, uc.expired(inv)), nil
}

func (uc *InvoiceUseCase) expired(inv *entity.Invoice) bool {
	return inv.Status == entity.InvoiceStatusDraft && inv.IsExpired(uc.now())
}

package usecase

import (
	"context"
	"errors"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// SaleUseCase caja: confirma ventas a través del motor y consulta el historial.
type SaleUseCase struct {
	engine *engine.SaleEngine
	sales  repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(saleEngine *engine.SaleEngine, sales repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{engine: saleEngine, sales: sales}
}

// Commit confirma la venta. Si la venta quedó registrada pero el asiento a crédito falló,
// devuelve la respuesta con LedgerPending y error nil: la venta no se revierte.
func (uc *SaleUseCase) Commit(ctx context.Context, in dto.CommitSaleRequest, performedBy string) (*dto.CommitSaleResponse, error) {
	lines := make([]engine.CartLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, engine.CartLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Name:      it.Name,
		})
	}
	res, err := uc.engine.CommitSale(ctx, engine.CommitSaleInput{
		CustomerName:  in.CustomerName,
		PaymentMethod: in.PaymentMethod,
		AmountPaid:    in.AmountPaid,
		Reference:     in.Reference,
		PartnerID:     in.PartnerID,
		Items:         lines,
		PerformedBy:   performedBy,
	})
	var partial *engine.PartialCommitError
	if err != nil && !errors.As(err, &partial) {
		return nil, err
	}
	return &dto.CommitSaleResponse{
		Sale:          *toSaleResponse(res.Sale),
		Outcome:       res.Outcome.String(),
		LedgerEntry:   toTransactionResponse(res.LedgerEntry),
		LedgerPending: partial != nil,
	}, nil
}

// RetryLedger reintenta el asiento de una venta a crédito.
func (uc *SaleUseCase) RetryLedger(ctx context.Context, saleID, performedBy string) (*dto.TransactionResponse, error) {
	tx, err := uc.engine.RetryCreditPosting(ctx, saleID, performedBy)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// GetByID obtiene una venta.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List ventas del período, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, req dto.DateRangeRequest) ([]dto.SaleResponse, error) {
	filter, err := toDateRange(req)
	if err != nil {
		return nil, err
	}
	list, err := uc.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

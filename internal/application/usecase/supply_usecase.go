package usecase

import (
	"context"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// SupplyUseCase recepción de mercancía y su historial.
type SupplyUseCase struct {
	receiver *engine.SupplyReceiver
	supplies repository.SupplyRepository
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(receiver *engine.SupplyReceiver, supplies repository.SupplyRepository) *SupplyUseCase {
	return &SupplyUseCase{receiver: receiver, supplies: supplies}
}

// Receive aplica la entrega del proveedor.
func (uc *SupplyUseCase) Receive(ctx context.Context, in dto.ReceiveSupplyRequest, performedBy string) (*dto.SupplyResponse, error) {
	lines := make([]engine.SupplyLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, engine.SupplyLine{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			BuyingPrice: it.BuyingPrice,
		})
	}
	supply, err := uc.receiver.ReceiveSupply(ctx, engine.ReceiveSupplyInput{
		SupplierID:  in.SupplierID,
		Items:       lines,
		OnCredit:    in.OnCredit,
		PerformedBy: performedBy,
	})
	if err != nil {
		return nil, err
	}
	return toSupplyResponse(supply), nil
}

// GetByID obtiene un aprovisionamiento.
func (uc *SupplyUseCase) GetByID(ctx context.Context, id string) (*dto.SupplyResponse, error) {
	s, err := uc.supplies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplyResponse(s), nil
}

// List aprovisionamientos del período.
func (uc *SupplyUseCase) List(ctx context.Context, req dto.DateRangeRequest) ([]dto.SupplyResponse, error) {
	filter, err := toDateRange(req)
	if err != nil {
		return nil, err
	}
	list, err := uc.supplies.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplyResponse(s))
	}
	return out, nil
}

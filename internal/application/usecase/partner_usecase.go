package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// PartnerUseCase clientes, proveedores y sus cuentas.
type PartnerUseCase struct {
	ledger       *engine.PartnerLedger
	partners     repository.PartnerRepository
	transactions repository.TransactionRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(
	partnerLedger *engine.PartnerLedger,
	partners repository.PartnerRepository,
	transactions repository.TransactionRepository,
) *PartnerUseCase {
	return &PartnerUseCase{ledger: partnerLedger, partners: partners, transactions: transactions}
}

// Create abre la cuenta del socio; la deuda inicial se asienta en la misma transacción.
func (uc *PartnerUseCase) Create(ctx context.Context, in dto.CreatePartnerRequest, performedBy string) (*dto.PartnerResponse, error) {
	p := &entity.Partner{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.ToUpper(strings.TrimSpace(in.Type)),
		CreditLimit: in.CreditLimit,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
	}
	if p.Type == entity.PartnerTypeSupplier && p.CreditLimit.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.ledger.OpenAccount(ctx, p, in.OpeningBalance, performedBy); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// GetByID obtiene un socio con sus asientos.
func (uc *PartnerUseCase) GetByID(ctx context.Context, id string) (*dto.PartnerStatementResponse, error) {
	p, err := uc.partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.Transactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PartnerStatementResponse{Partner: *toPartnerResponse(p), Transactions: txs}, nil
}

// List socios filtrados por tipo (vacío = todos).
func (uc *PartnerUseCase) List(ctx context.Context, partnerType string) ([]dto.PartnerResponse, error) {
	partnerType = strings.ToUpper(partnerType)
	if partnerType != "" && !entity.IsValidPartnerType(partnerType) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.partners.List(ctx, partnerType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPartnerResponse(p))
	}
	return out, nil
}

// RecordTransaction registra una factura o un pago en la cuenta del socio.
func (uc *PartnerUseCase) RecordTransaction(ctx context.Context, partnerID string, in dto.RecordTransactionRequest, performedBy string) (*dto.TransactionResponse, error) {
	tx, err := uc.ledger.RecordPartnerTransaction(ctx, engine.RecordTransactionInput{
		PartnerID:   partnerID,
		Type:        strings.ToUpper(in.Type),
		Amount:      in.Amount,
		Description: in.Description,
		ReferenceID: in.ReferenceID,
		PerformedBy: performedBy,
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// Transactions asientos del socio, más recientes primero.
func (uc *PartnerUseCase) Transactions(ctx context.Context, partnerID string) ([]dto.TransactionResponse, error) {
	list, err := uc.transactions.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTransactionResponse(t))
	}
	return out, nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// ExpenseUseCase gastos declarados por el personal y su validación.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, now: time.Now}
}

// Declare registra el gasto en PENDING.
func (uc *ExpenseUseCase) Declare(ctx context.Context, in dto.ExpenseRequest, performedBy string) (*dto.ExpenseResponse, error) {
	category := strings.ToUpper(in.Category)
	if category != entity.ExpenseCategoryFixed && category != entity.ExpenseCategoryVariable {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() || strings.TrimSpace(in.Type) == "" {
		return nil, domain.ErrInvalidInput
	}
	e := &entity.Expense{
		ID:          uuid.New().String(),
		Date:        uc.now(),
		Category:    category,
		Type:        strings.TrimSpace(in.Type),
		Description: in.Description,
		Amount:      in.Amount,
		Status:      entity.ExpenseStatusPending,
		PerformedBy: performedBy,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// Approve PENDING → APPROVED.
func (uc *ExpenseUseCase) Approve(ctx context.Context, id, reviewedBy string) (*dto.ExpenseResponse, error) {
	return uc.review(ctx, id, entity.ExpenseStatusApproved, reviewedBy)
}

// Reject PENDING → REJECTED.
func (uc *ExpenseUseCase) Reject(ctx context.Context, id, reviewedBy string) (*dto.ExpenseResponse, error) {
	return uc.review(ctx, id, entity.ExpenseStatusRejected, reviewedBy)
}

func (uc *ExpenseUseCase) review(ctx context.Context, id, status, reviewedBy string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.Status != entity.ExpenseStatusPending {
		return nil, domain.ErrInvalidState
	}
	now := uc.now()
	e.Status = status
	e.ReviewedBy = reviewedBy
	e.ReviewedAt = &now
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// List gastos filtrados por estado (vacío = todos).
func (uc *ExpenseUseCase) List(ctx context.Context, status string) ([]dto.ExpenseResponse, error) {
	list, err := uc.repo.List(ctx, strings.ToUpper(status))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return out, nil
}

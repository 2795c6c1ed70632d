package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Category:        p.Category,
		Price:           p.Price,
		CostPrice:       p.CostPrice,
		Quantity:        p.Quantity,
		InitialQuantity: p.InitialQuantity,
		MinStock:        p.MinStock,
		LowStock:        p.IsLowStock(),
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			CostPrice: it.CostPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	out := &dto.SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		CustomerName:  s.CustomerName,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		AmountPaid:    s.AmountPaid,
		Reference:     s.Reference,
		PartnerID:     s.PartnerID,
		InvoiceID:     s.InvoiceID,
		Items:         items,
		PerformedBy:   s.PerformedBy,
	}
	if s.AmountPaid != nil && s.AmountPaid.GreaterThanOrEqual(s.Total) {
		change := s.AmountPaid.Sub(s.Total)
		out.Change = &change
	}
	return out
}

func toSupplyResponse(s *entity.Supply) *dto.SupplyResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.SupplyItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SupplyItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			BuyingPrice: it.BuyingPrice,
		})
	}
	return &dto.SupplyResponse{
		ID:           s.ID,
		Date:         s.Date,
		SupplierID:   s.SupplierID,
		SupplierName: s.SupplierName,
		TotalCost:    s.TotalCost,
		Status:       s.Status,
		OnCredit:     s.OnCredit,
		Items:        items,
		PerformedBy:  s.PerformedBy,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		Date:        m.Date,
		Type:        m.Type,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		ReferenceID: m.ReferenceID,
		PerformedBy: m.PerformedBy,
	}
}

func toPartnerResponse(p *entity.Partner) *dto.PartnerResponse {
	if p == nil {
		return nil
	}
	return &dto.PartnerResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Balance:     p.Balance,
		CreditLimit: p.CreditLimit,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		CreatedAt:   p.CreatedAt,
	}
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		PartnerID:   t.PartnerID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		ReferenceID: t.ReferenceID,
		PerformedBy: t.PerformedBy,
	}
}

func toInvoiceResponse(inv *entity.Invoice, expired bool) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		Type:       inv.Type,
		Number:     inv.Number,
		Date:       inv.Date,
		ValidUntil: inv.ValidUntil,
		Expired:    expired,
		ClientName: inv.ClientName,
		Items:      items,
		Total:      inv.Total,
		Status:     inv.Status,
		SaleID:     inv.SaleID,
		CreatedBy:  inv.CreatedBy,
	}
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	return &dto.ExpenseResponse{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Type:        e.Type,
		Description: e.Description,
		Amount:      e.Amount,
		Status:      e.Status,
		PerformedBy: e.PerformedBy,
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
	}
}

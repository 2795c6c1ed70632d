package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

var (
	_ repository.PartnerRepository     = (*PartnerRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
)

const (
	partnersTable     = "partners"
	transactionsTable = "transactions"
)

var partnerColumns = []string{
	"id", "name", "type", "balance", "credit_limit", "phone", "email", "address", "created_at", "updated_at",
}

type partnerRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Type        string          `db:"type"`
	Balance     decimal.Decimal `db:"balance"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	Phone       string          `db:"phone"`
	Email       string          `db:"email"`
	Address     string          `db:"address"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r partnerRow) toEntity() *entity.Partner {
	return &entity.Partner{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Balance:     r.Balance,
		CreditLimit: r.CreditLimit,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// PartnerRepo clientes y proveedores sobre PostgreSQL.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el repositorio. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

// Create inserta el socio.
func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	b := psql.Insert(partnersTable).Columns(partnerColumns...).Values(
		p.ID, p.Name, p.Type, p.Balance, p.CreditLimit, p.Phone, p.Email, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if _, err := exec(ctx, r.q, b, "insert partner"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID obtiene un socio por ID.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	return r.getOne(ctx, psql.Select(partnerColumns...).From(partnersTable).Where(squirrel.Eq{"id": id}), "get partner")
}

// GetForUpdate obtiene el socio bloqueando la fila.
func (r *PartnerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Partner, error) {
	return r.getOne(ctx, psql.Select(partnerColumns...).From(partnersTable).Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), "get partner for update")
}

func (r *PartnerRepo) getOne(ctx context.Context, b squirrel.SelectBuilder, op string) (*entity.Partner, error) {
	row, err := getOne[partnerRow](ctx, r.q, b, op)
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List socios por nombre; partnerType vacío devuelve todos.
func (r *PartnerRepo) List(ctx context.Context, partnerType string) ([]*entity.Partner, error) {
	b := psql.Select(partnerColumns...).From(partnersTable).OrderBy("name")
	if partnerType != "" {
		b = b.Where(squirrel.Eq{"type": partnerType})
	}
	rows, err := selectAll[partnerRow](ctx, r.q, b, "list partners")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Partner, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// SetBalance escribe el saldo cacheado.
func (r *PartnerRepo) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	b := psql.Update(partnersTable).
		Set("balance", balance).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	tag, err := exec(ctx, r.q, b, "set partner balance")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var transactionColumns = []string{
	"id", "date", "partner_id", "type", "amount", "description", "reference_id", "performed_by",
}

type transactionRow struct {
	ID          string          `db:"id"`
	Date        time.Time       `db:"date"`
	PartnerID   string          `db:"partner_id"`
	Type        string          `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	ReferenceID string          `db:"reference_id"`
	PerformedBy string          `db:"performed_by"`
}

func (r transactionRow) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:          r.ID,
		Date:        r.Date,
		PartnerID:   r.PartnerID,
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
		ReferenceID: r.ReferenceID,
		PerformedBy: r.PerformedBy,
	}
}

// TransactionRepo asientos de socios sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el repositorio. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta el asiento; el índice único (partner_id, type, reference_id) evita duplicados.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	b := psql.Insert(transactionsTable).Columns(transactionColumns...).Values(
		t.ID, t.Date, t.PartnerID, t.Type, t.Amount, t.Description, t.ReferenceID, t.PerformedBy,
	)
	if _, err := exec(ctx, r.q, b, "insert transaction"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByPartner asientos del socio, más reciente primero.
func (r *TransactionRepo) ListByPartner(ctx context.Context, partnerID string) ([]*entity.Transaction, error) {
	b := psql.Select(transactionColumns...).From(transactionsTable).
		Where(squirrel.Eq{"partner_id": partnerID}).
		OrderBy("date DESC")
	rows, err := selectAll[transactionRow](ctx, r.q, b, "list transactions")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// GetByReference busca el asiento de un documento.
func (r *TransactionRepo) GetByReference(ctx context.Context, partnerID, txType, referenceID string) (*entity.Transaction, error) {
	b := psql.Select(transactionColumns...).From(transactionsTable).Where(squirrel.Eq{
		"partner_id":   partnerID,
		"type":         txType,
		"reference_id": referenceID,
	})
	row, err := getOne[transactionRow](ctx, r.q, b, "get transaction by reference")
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// NetByPartner suma de asientos por socio.
func (r *TransactionRepo) NetByPartner(ctx context.Context) (map[string]decimal.Decimal, error) {
	type netRow struct {
		PartnerID string          `db:"partner_id"`
		Net       decimal.Decimal `db:"net"`
	}
	b := psql.Select("partner_id", "COALESCE(SUM(amount), 0) AS net").From(transactionsTable).GroupBy("partner_id")
	rows, err := selectAll[netRow](ctx, r.q, b, "net transactions")
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.PartnerID] = row.Net
	}
	return out, nil
}

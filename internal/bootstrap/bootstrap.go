// Package bootstrap arma el grafo de dependencias (almacenamiento, motor, casos de uso y
// cola local) a partir de la configuración. Lo comparten el servidor HTTP y posctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/application/usecase"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/memory"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/spool"
	httpRouter "github.com/jhoicas/pos-repuestos/internal/interfaces/http"
	"github.com/jhoicas/pos-repuestos/pkg/config"
)

// Container dependencias ya construidas.
type Container struct {
	ProductUC *usecase.ProductUseCase
	SupplyUC  *usecase.SupplyUseCase
	SaleUC    *usecase.SaleUseCase
	PartnerUC *usecase.PartnerUseCase
	InvoiceUC *usecase.InvoiceUseCase
	ExpenseUC *usecase.ExpenseUseCase
	ReportUC  *usecase.ReportUseCase

	// Spool y Replayer son nil si la cola local está desactivada.
	Spool    *spool.Spool
	Replayer *spool.Replayer

	// Memory sólo con STORAGE_DRIVER=memory.
	Memory *memory.Store

	closers []func() error
}

// storage puertos que cada driver debe aportar.
type storage struct {
	reads    engine.Repos
	txRunner engine.TransactionalUpdate
	applier  engine.CommutativeDelta
	expenses repository.ExpenseRepository
}

// Build conecta el almacenamiento indicado por cfg.DB.Driver y arma los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{}
	st, err := c.openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	applier := st.applier
	if cfg.Spool.Enabled() {
		sp, err := spool.Open(cfg.Spool.Path)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Spool = sp
		c.closers = append(c.closers, sp.Close)
		applier = spool.NewQueueingApplier(st.applier, sp, log)
	}

	guard := engine.AllowNegative
	if !cfg.Engine.StockAllowNegative {
		guard = engine.ForbidOversell
	}

	ledger := engine.NewPartnerLedger(st.txRunner, log)
	saleEngine := engine.NewSaleEngine(st.reads, applier, ledger, guard, log)
	converter := engine.NewProformaConverter(st.txRunner, ledger, guard, log)

	c.ProductUC = usecase.NewProductUseCase(st.reads.Products, st.reads.Movements)
	c.SupplyUC = usecase.NewSupplyUseCase(engine.NewSupplyReceiver(st.txRunner, ledger, log), st.reads.Supplies)
	c.SaleUC = usecase.NewSaleUseCase(saleEngine, st.reads.Sales)
	c.PartnerUC = usecase.NewPartnerUseCase(ledger, st.reads.Partners, st.reads.Transactions)
	c.InvoiceUC = usecase.NewInvoiceUseCase(st.txRunner, st.reads, converter, cfg.Documents.ProformaValidityDays, log)
	c.ExpenseUC = usecase.NewExpenseUseCase(st.expenses)
	c.ReportUC = usecase.NewReportUseCase(st.reads, st.expenses)

	if c.Spool != nil {
		// El replayer aplica contra el almacenamiento directo: un lote reaplicado no vuelve a la cola.
		c.Replayer = spool.NewReplayer(c.Spool, st.applier, log)
		c.Replayer.AfterApply = func(ctx context.Context, b *engine.Batch) error {
			if b.Sale == nil || !b.Sale.IsCredit() {
				return nil
			}
			_, err := saleEngine.RetryCreditPosting(ctx, b.Sale.ID, "")
			return err
		}
	}
	return c, nil
}

func (c *Container) openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.DB.Driver {
	case config.StorageMemory:
		store := memory.New()
		c.Memory = store
		return &storage{reads: store.Repos(), txRunner: store, applier: store, expenses: store.Expenses()}, nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, func() error { pool.Close(); return nil })
		return &storage{
			reads:    postgres.NewRepos(pool),
			txRunner: postgres.NewTxRunner(pool, cfg.Engine.TxMaxRetries, cfg.Engine.TxRetryBackoff, log),
			applier:  postgres.NewBatchApplier(pool, cfg.Engine.TxMaxRetries, log),
			expenses: postgres.NewExpenseRepository(pool),
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.DB.Driver)
}

// RouterDeps dependencias para el router HTTP.
func (c *Container) RouterDeps(jwtSecret string, log zerolog.Logger) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		ProductUC: c.ProductUC,
		SupplyUC:  c.SupplyUC,
		SaleUC:    c.SaleUC,
		PartnerUC: c.PartnerUC,
		InvoiceUC: c.InvoiceUC,
		ExpenseUC: c.ExpenseUC,
		ReportUC:  c.ReportUC,
		JWTSecret: jwtSecret,
		Log:       log,
		Spool:     c.Spool,
		Replayer:  c.Replayer,
	}
}

// Close libera conexiones en orden inverso a su apertura.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

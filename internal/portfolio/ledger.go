package portfolio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gamma-omg/stock-analysis/internal/market"
)

// Ledger loads and persists portfolios through a Store. Load-modify-save
// sequences for the same name are serialized.
type Ledger struct {
	log   *slog.Logger
	store Store
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(log *slog.Logger, store Store) *Ledger {
	return &Ledger{
		log:   log,
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) Load(ctx context.Context, name string) (*Portfolio, error) {
	unlock := l.lock(name)
	defer unlock()

	return l.load(ctx, name)
}

func (l *Ledger) Save(ctx context.Context, p *Portfolio) error {
	unlock := l.lock(p.Name)
	defer unlock()

	return l.save(ctx, p)
}

// Update loads the named portfolio, applies fn and saves the result. Nothing
// is saved when fn fails.
func (l *Ledger) Update(ctx context.Context, name string, fn func(p *Portfolio) error) (*Portfolio, error) {
	unlock := l.lock(name)
	defer unlock()

	p, err := l.load(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	if err := l.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddTrade appends one manual trade to a stored portfolio.
func (l *Ledger) AddTrade(ctx context.Context, name string, t market.Trade) (*Portfolio, error) {
	return l.Update(ctx, name, func(p *Portfolio) error {
		applied, err := p.AddTrade(t.Symbol, t.Side, t.Shares, t.Price, t.Time)
		if err != nil {
			return err
		}

		l.log.Debug("trade applied",
			slog.String("portfolio", name),
			slog.String("symbol", applied.Symbol),
			slog.String("action", string(applied.Side)),
			slog.String("shares", applied.Shares.String()),
			slog.String("price", applied.Price.String()),
			slog.String("cash", p.Cash.String()))
		if p.Cash.IsNegative() {
			l.log.Warn("portfolio cash is negative", slog.String("portfolio", name), slog.String("cash", p.Cash.String()))
		}
		return nil
	})
}

func (l *Ledger) load(ctx context.Context, name string) (*Portfolio, error) {
	data, err := l.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

func (l *Ledger) save(ctx context.Context, p *Portfolio) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return l.store.Save(ctx, p.Name, data)
}

func (l *Ledger) lock(name string) func() {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

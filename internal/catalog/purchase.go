package catalog

import (
	"context"
	"errors"
	"fmt"

	"crown-ledger/internal/ledger"
)

var ErrItemNotFound = errors.New("item_not_found")

// Processor turns a catalog lookup plus ledger debit into one logical
// transaction: if the item's effect cannot be applied, the debit is paid
// back before the failure is reported.
type Processor struct {
	catalog *Catalog
	ledger  *ledger.Ledger
}

func NewProcessor(c *Catalog, led *ledger.Ledger) *Processor {
	return &Processor{catalog: c, ledger: led}
}

type Receipt struct {
	Item    Item
	Balance int64
}

// Purchase debits the item price and applies its effect through apply. A nil
// apply defers the effect to the caller, who receives it in the receipt.
func (p *Processor) Purchase(ctx context.Context, user, name string, apply func(Effect) error) (Receipt, error) {
	it, ok := p.catalog.Get(name)
	if !ok {
		return Receipt{}, ErrItemNotFound
	}

	bal, err := p.ledger.DebitPurchase(ctx, user, it.Price, it.Name)
	if err != nil {
		return Receipt{}, err
	}

	if apply != nil {
		if err := apply(it.Effect); err != nil {
			_, _ = p.ledger.RefundPurchase(ctx, user, it.Price, it.Name)
			return Receipt{}, fmt.Errorf("apply %s effect: %w", it.Name, err)
		}
	}
	return Receipt{Item: it, Balance: bal}, nil
}

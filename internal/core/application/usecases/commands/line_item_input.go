package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// LineItemInput is a product and quantity as requested by the client.
type LineItemInput struct {
	ProductID kernel.UUID
	Quantity  int
}

func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return order.ErrItemsAreEmpty
	}
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].productId", i), err)
		}
		if item.Quantity < 1 || item.Quantity > order.MaxQuantity {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), item.Quantity, 1, order.MaxQuantity)
		}
	}
	return nil
}

// priceLineItems resolves every product through the catalog and captures its
// current price. Unknown products are a validation error.
func priceLineItems(ctx context.Context, catalog ports.CatalogLookup, inputs []LineItemInput) ([]order.LineItem, error) {
	ids := make([]kernel.UUID, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}

	products, err := catalog.Products(ctx, ids)
	if err != nil {
		return nil, errs.FromContext(ctx, err)
	}

	items := make([]order.LineItem, 0, len(inputs))
	for i, in := range inputs {
		product, ok := products[in.ProductID]
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].productId", i),
				fmt.Errorf("product %s is not in the catalog", in.ProductID),
			)
		}
		item, err := order.NewLineItem(product.ID, product.RestaurantID, in.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

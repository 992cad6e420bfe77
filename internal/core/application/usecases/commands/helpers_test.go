package commands_test

import (
	"testing"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type orderUoWs func() commands.OrderUoW

func (f orderUoWs) Create() commands.OrderUoW { return f() }

type ratingUoWs func() commands.RatingUoW

func (f ratingUoWs) Create() commands.RatingUoW { return f() }

type messageUoWs func() commands.MessageUoW

func (f messageUoWs) Create() commands.MessageUoW { return f() }

type locationUoWs func() commands.LocationUoW

func (f locationUoWs) Create() commands.LocationUoW { return f() }

type outboxUoWs func() commands.OutboxUoW

func (f outboxUoWs) Create() commands.OutboxUoW { return f() }

// world is a coordinator wired to the in-memory store.
type world struct {
	factory    ports.UnitOfWorkFactory
	catalog    *memory.Catalog
	notifier   *recordingNotifier
	restaurant kernel.UUID
	burger     kernel.UUID
	fries      kernel.UUID
	sushi      kernel.UUID
}

func newWorld() *world {
	w := &world{
		factory:    memory.NewUnitOfWorkFactory(memory.NewStore()),
		notifier:   &recordingNotifier{},
		restaurant: kernel.NewUUID(),
		burger:     kernel.NewUUID(),
		fries:      kernel.NewUUID(),
		sushi:      kernel.NewUUID(),
	}
	w.catalog = memory.NewCatalog(
		catalog.Product{ID: w.burger, RestaurantID: w.restaurant, Price: decimal.RequireFromString("8.50")},
		catalog.Product{ID: w.fries, RestaurantID: w.restaurant, Price: decimal.RequireFromString("3.00")},
		catalog.Product{ID: w.sushi, RestaurantID: kernel.NewUUID(), Price: decimal.RequireFromString("12.00")},
	)
	return w
}

func (w *world) orders() commands.OrderUoWFactory {
	return orderUoWs(func() commands.OrderUoW { return w.factory.Create() })
}

func (w *world) ratings() commands.RatingUoWFactory {
	return ratingUoWs(func() commands.RatingUoW { return w.factory.Create() })
}

func (w *world) messages() commands.MessageUoWFactory {
	return messageUoWs(func() commands.MessageUoW { return w.factory.Create() })
}

func (w *world) locations() commands.LocationUoWFactory {
	return locationUoWs(func() commands.LocationUoW { return w.factory.Create() })
}

func (w *world) outbox() commands.OutboxUoWFactory {
	return outboxUoWs(func() commands.OutboxUoW { return w.factory.Create() })
}

func newAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(kernel.NewUUID(), "Shaykhontohur", "Navoi 30, apt 12")
	require.NoError(t, err)
	return addr
}

// createOrder places a burger order for client and returns its id.
func (w *world) createOrder(t *testing.T, client kernel.UUID) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), client, newAddress(t), []commands.LineItemInput{
		{ProductID: w.burger, Quantity: 2},
	})
	require.NoError(t, err)

	o, err := commands.NewCreateOrderCommandHandler(w.orders(), w.catalog).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return o.ID()
}

func (w *world) claim(t *testing.T, orderID, courier kernel.UUID) error {
	t.Helper()
	cmd, err := commands.NewClaimOrderCommand(orderID, courier)
	require.NoError(t, err)
	_, err = commands.NewClaimOrderCommandHandler(w.orders(), w.notifier).Handle(t.Context(), cmd)
	return err
}

func newCreateFor(t *testing.T, w *world, client kernel.UUID) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), client, newAddress(t),
		[]commands.LineItemInput{{ProductID: w.fries, Quantity: 1}})
	require.NoError(t, err)
	return cmd
}

func createHandler(w *world) commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(w.orders(), w.catalog)
}

package service

import (
	"testing"
	"time"

	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTemplate creates an order with the template flag set and returns the
// wrapping template.
func newTemplate(t *testing.T, e *testEnv, f *fixtures, categoryIDs []uuid.UUID) (*model.OrderTemplate, *model.Order) {
	t.Helper()
	req := f.newOrder()
	req.IsOrderTemplate = true
	order, err := e.orders.CreateOrder(req, categoryIDs, "u1", "Tester")
	require.NoError(t, err)

	tpl, err := e.templateRepo.FindByOrderID(e.db, order.ID)
	require.NoError(t, err)
	return tpl, order
}

func TestDeriveOrderPreservesDateOffsets(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	tpl, src := newTemplate(t, e, f, nil)

	// Template dates: shipping 03-10, arrival +2d, manufacture -9d,
	// expiration = manufacture +30d.
	derived, err := e.templates.DeriveOrder(tpl.ID, DeriveOverrides{
		ShippingDate: "2026-05-01",
	}, "u1", "Tester")
	require.NoError(t, err)

	assert.True(t, derived.ShippingDate.Equal(date(2026, time.May, 1)), "got %s", derived.ShippingDate)
	assert.True(t, derived.ArrivalDate.Equal(date(2026, time.May, 3)), "got %s", derived.ArrivalDate)
	assert.True(t, derived.ManufactureDate.Equal(date(2026, time.April, 22)), "got %s", derived.ManufactureDate)
	assert.True(t, derived.ExpirationDate.Equal(date(2026, time.May, 22)), "got %s", derived.ExpirationDate)

	// The derived order is a real estimate with its own bucket.
	assert.Equal(t, model.StatusEstimate, derived.Status)
	assert.False(t, derived.IsOrderTemplate)
	require.NotNil(t, derived.ProductInventoryID)
	assert.NotEqual(t, *src.ProductInventoryID, *derived.ProductInventoryID)
}

func TestDeriveOrderAppliesOverrides(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	tpl, _ := newTemplate(t, e, f, []uuid.UUID{f.categories[0].ID})

	qty := 35
	note := "rush"
	derived, err := e.templates.DeriveOrder(tpl.ID, DeriveOverrides{
		ShippingDate: "2026-05-01",
		ItemQuantity: &qty,
		Note:         &note,
	}, "u1", "Tester")
	require.NoError(t, err)

	assert.Equal(t, 35, derived.ItemQuantity)
	assert.Equal(t, "rush", derived.Note)
	// Untouched fields carry over, including the category set.
	assert.Equal(t, f.newOrder().ReceptacleQuantity, derived.ReceptacleQuantity)
	require.Len(t, derived.Categories, 1)
	assert.Equal(t, f.categories[0].ID, derived.Categories[0].ID)
}

func TestDeriveOrderRejectsBadDate(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	tpl, _ := newTemplate(t, e, f, nil)

	_, err := e.templates.DeriveOrder(tpl.ID, DeriveOverrides{ShippingDate: "05/01/2026"}, "u1", "Tester")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = e.templates.DeriveOrder(uuid.New(), DeriveOverrides{ShippingDate: "2026-05-01"}, "u1", "Tester")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCopyToTemplate(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)

	src, err := e.orders.CreateOrder(f.newOrder(), []uuid.UUID{f.categories[0].ID}, "u1", "Tester")
	require.NoError(t, err)

	tpl, err := e.templates.CopyToTemplate(src.ID, "Weekly North Run", "every monday", "u1", "Tester")
	require.NoError(t, err)
	assert.Equal(t, "Weekly North Run", tpl.Identifier)
	assert.Equal(t, "every monday", tpl.Notes)
	assert.NotEqual(t, src.ID, tpl.OrderID, "the template wraps a duplicate, not the source")

	// The duplicate is a template order: hidden from real listings, categories
	// carried over.
	dup, err := e.orders.GetOrder(tpl.OrderID)
	require.NoError(t, err)
	assert.True(t, dup.IsOrderTemplate)
	require.Len(t, dup.Categories, 1)

	real, err := e.orders.GetOrders(false)
	require.NoError(t, err)
	assert.Len(t, real, 1)
}

func TestUpdateTemplateMeta(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	tpl, _ := newTemplate(t, e, f, nil)

	updated, err := e.templates.UpdateTemplateMeta(tpl.ID, "Standing Order A", "notes here", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Standing Order A", updated.Identifier)
	assert.Equal(t, "notes here", updated.Notes)

	// An empty identifier keeps the current one.
	updated, err = e.templates.UpdateTemplateMeta(tpl.ID, "", "", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Standing Order A", updated.Identifier)
}

func TestFindAssociableTemplate(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)

	tpl, tplOrder := newTemplate(t, e, f, []uuid.UUID{f.categories[0].ID})

	// The template's own order resolves to its wrapper.
	found, err := e.templates.FindAssociableTemplate(tplOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, found.ID)

	// A plain order with the same buyer, variation, receptacle and category
	// set matches by attribute.
	match, err := e.orders.CreateOrder(f.newOrder(), []uuid.UUID{f.categories[0].ID}, "u1", "Tester")
	require.NoError(t, err)
	found, err = e.templates.FindAssociableTemplate(match.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, found.ID)

	// A different category set does not match.
	other, err := e.orders.CreateOrder(f.newOrder(), []uuid.UUID{f.categories[1].ID}, "u1", "Tester")
	require.NoError(t, err)
	_, err = e.templates.FindAssociableTemplate(other.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	// Category order does not matter.
	both, err := e.orders.CreateOrder(f.newOrder(),
		[]uuid.UUID{f.categories[1].ID, f.categories[0].ID}, "u1", "Tester")
	require.NoError(t, err)
	bothTpl, err := e.templates.CopyToTemplate(both.ID, "Both", "", "u1", "Tester")
	require.NoError(t, err)
	found, err = e.templates.FindAssociableTemplate(both.ID)
	require.NoError(t, err)
	assert.Equal(t, bothTpl.ID, found.ID)
}

func TestDefaultTemplateIdentifier(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	tpl, order := newTemplate(t, e, f, nil)

	assert.Equal(t, "TPL-"+order.ID.String()[:8], tpl.Identifier)
}

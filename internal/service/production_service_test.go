package service

import (
	"testing"

	"go-wholesale-orders/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// orderOnBucket creates an order and returns its bucket id.
func orderOnBucket(t *testing.T, e *testEnv, f *fixtures, itemQty int) (*model.Order, uuid.UUID) {
	t.Helper()
	req := f.newOrder()
	req.ItemQuantity = itemQty
	created, err := e.orders.CreateOrder(req, nil, "u1", "Tester")
	require.NoError(t, err)
	return created, *created.ProductInventoryID
}

func TestFulfillmentMovesStock(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 30)

	created, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    30,
	}, "u1")
	require.NoError(t, err)

	bucket, err := e.inventory.GetBucket(bucketID)
	require.NoError(t, err)
	assert.Equal(t, 0, bucket.Quantity, "recording a request must not move stock")

	_, err = e.production.UpdateRequest(created.ID, &model.ProductionRequest{
		RequestQuantity:   30,
		FulfilledQuantity: 30,
		Status:            model.ProductionInProgress,
	}, "u1")
	require.NoError(t, err)

	bucket, err = e.inventory.GetBucket(bucketID)
	require.NoError(t, err)
	assert.Equal(t, 30, bucket.Quantity)

	// Correcting fulfillment downward pulls the difference back out.
	_, err = e.production.UpdateRequest(created.ID, &model.ProductionRequest{
		RequestQuantity:   30,
		FulfilledQuantity: 25,
		Status:            model.ProductionCompleted,
	}, "u1")
	require.NoError(t, err)

	bucket, err = e.inventory.GetBucket(bucketID)
	require.NoError(t, err)
	assert.Equal(t, 25, bucket.Quantity)
}

func TestCreateRequestWithImmediateFulfillment(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 20)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    17,
		FulfilledQuantity:  17,
		Status:             model.ProductionCompleted,
	}, "u1")
	require.NoError(t, err)

	bucket, err := e.inventory.GetBucket(bucketID)
	require.NoError(t, err)
	assert.Equal(t, 17, bucket.Quantity)
}

func TestCreateRequestDefaultsFromBucket(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	order, bucketID := orderOnBucket(t, e, f, 20)

	created, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    20,
	}, "u1")
	require.NoError(t, err)

	assert.Equal(t, f.variation.ID, created.ProductVariationID)
	require.NotNil(t, created.ShippingReceptacleID)
	assert.Equal(t, *order.ShippingReceptacleID, *created.ShippingReceptacleID)
}

func TestCreateRequestUnknownBucket(t *testing.T) {
	e := newTestEnv(t)
	seedFixtures(t, e.db)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: uuid.New(),
		RequestQuantity:    5,
	}, "u1")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestConvertOutstandingOrders(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)

	_, bucketID := orderOnBucket(t, e, f, 20)
	orderOnBucket(t, e, f, 15)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    25,
	}, "u1")
	require.NoError(t, err)

	created, err := e.production.ConvertOutstandingOrders(bucketID, "u1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 10, created.RequestQuantity) // 35 demand - 25 requested
	assert.Equal(t, model.ProductionPending, created.Status)
}

func TestConvertBalancedBucketCreatesNothing(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 25)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    25,
	}, "u1")
	require.NoError(t, err)

	created, err := e.production.ConvertOutstandingOrders(bucketID, "u1")
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestConvertRecordsNegativeRemainder(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 10)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    25,
	}, "u1")
	require.NoError(t, err)

	created, err := e.production.ConvertOutstandingOrders(bucketID, "u1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, -15, created.RequestQuantity)
}

func TestConvertCountsFulfilledOverRequested(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 40)

	// An open request fulfilled beyond its ask covers the fulfilled amount.
	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    20,
		FulfilledQuantity:  30,
		Status:             model.ProductionInProgress,
	}, "u1")
	require.NoError(t, err)

	created, err := e.production.ConvertOutstandingOrders(bucketID, "u1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 10, created.RequestQuantity) // 40 demand - max(20, 30)
}

func TestConvertIgnoresShippedAndCompleted(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)

	shipped, bucketID := orderOnBucket(t, e, f, 20)
	orderOnBucket(t, e, f, 15)

	upd := f.newOrder()
	upd.ItemQuantity = 20
	upd.Status = model.StatusShipped
	_, err := e.orders.UpdateOrder(shipped.ID, upd, nil, "u1", "Tester")
	require.NoError(t, err)

	// Completed requests no longer count as coverage.
	_, err = e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    5,
		FulfilledQuantity:  5,
		Status:             model.ProductionCompleted,
	}, "u1")
	require.NoError(t, err)

	created, err := e.production.ConvertOutstandingOrders(bucketID, "u1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 15, created.RequestQuantity)
}

func TestSummarizeBucket(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)

	_, bucketID := orderOnBucket(t, e, f, 20)
	orderOnBucket(t, e, f, 15)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    25,
		FulfilledQuantity:  10,
		Status:             model.ProductionInProgress,
	}, "u1")
	require.NoError(t, err)

	summary, err := e.production.SummarizeBucket(bucketID)
	require.NoError(t, err)
	assert.Equal(t, bucketID, summary.BucketID)
	assert.Equal(t, 10, summary.OnHand)
	assert.Equal(t, 35, summary.OrderDemand)
	assert.Equal(t, 25, summary.AlreadyRequested)
	assert.Equal(t, 10, summary.Remainder)
}

func TestBacklogByZone(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	_, bucketID := orderOnBucket(t, e, f, 60)

	_, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		ProductionZoneID:   &f.zone.ID,
		RequestQuantity:    20,
	}, "u1")
	require.NoError(t, err)
	_, err = e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		ProductionZoneID:   &f.zone.ID,
		RequestQuantity:    10,
		FulfilledQuantity:  15,
		Status:             model.ProductionInProgress,
	}, "u1")
	require.NoError(t, err)
	_, err = e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    5,
	}, "u1")
	require.NoError(t, err)
	// Completed work drops out of the backlog.
	_, err = e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		ProductionZoneID:   &f.zone.ID,
		RequestQuantity:    40,
		FulfilledQuantity:  40,
		Status:             model.ProductionCompleted,
	}, "u1")
	require.NoError(t, err)

	rows, err := e.production.BacklogByZone()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]ZoneBacklog{}
	for _, row := range rows {
		byName[row.ZoneName] = row
	}
	zone := byName[f.zone.Name]
	assert.Equal(t, 2, zone.OpenRequests)
	assert.Equal(t, 35, zone.Outstanding) // 20 + max(10, 15)
	assert.Equal(t, 1, byName["unassigned"].OpenRequests)
	assert.Equal(t, 5, byName["unassigned"].Outstanding)
}

func TestDeleteRequestReleasesBucket(t *testing.T) {
	e := newTestEnv(t)
	f := seedFixtures(t, e.db)
	order, bucketID := orderOnBucket(t, e, f, 20)

	created, err := e.production.CreateRequest(&model.ProductionRequest{
		ProductInventoryID: bucketID,
		RequestQuantity:    20,
	}, "u1")
	require.NoError(t, err)

	// The order still pins the bucket.
	require.NoError(t, e.orders.DeleteOrder(order.ID, "u1", "Tester"))
	_, err = e.inventoryRepo.FindByID(bucketID)
	require.NoError(t, err)

	require.NoError(t, e.production.DeleteRequest(created.ID, "u1"))
	_, err = e.inventoryRepo.FindByID(bucketID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	OwnerID uuid.UUID       `validate:"uuid_required"`
	Price   decimal.Decimal `validate:"dec_gte_zero"`
	Name    string          `validate:"required,max=5"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{OwnerID: uuid.New(), Price: decimal.NewFromInt(10), Name: "fine"}
	assert.Empty(t, ValidateStruct(ok))

	bad := sample{Price: decimal.NewFromInt(-1), Name: ""}
	errs := ValidateStruct(bad)
	assert.Len(t, errs, 3)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["sample.OwnerID"])
	assert.Equal(t, "dec_gte_zero", tags["sample.Price"])
	assert.Equal(t, "required", tags["sample.Name"])
}

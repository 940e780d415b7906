// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestItemRefValidate(t *testing.T) {
	productID := uuid.New()
	listingID := uuid.New()

	assert.NoError(t, ItemRef{ProductID: &productID}.Validate())
	assert.NoError(t, ItemRef{MaterialListingID: &listingID}.Validate())

	assert.ErrorIs(t, ItemRef{}.Validate(), ErrItemRefExclusive)
	assert.ErrorIs(t, ItemRef{ProductID: &productID, MaterialListingID: &listingID}.Validate(), ErrItemRefExclusive)
}

func TestItemRefKind(t *testing.T) {
	productID := uuid.New()
	listingID := uuid.New()

	assert.Equal(t, OrderTypeProduct, ItemRef{ProductID: &productID}.Kind())
	assert.Equal(t, OrderTypeMaterial, ItemRef{MaterialListingID: &listingID}.Kind())
}

func TestItemRefSameItem(t *testing.T) {
	productID := uuid.New()
	otherProductID := uuid.New()
	listingID := uuid.New()

	a := ItemRef{ProductID: &productID}
	b := ItemRef{ProductID: &productID}
	c := ItemRef{ProductID: &otherProductID}
	d := ItemRef{MaterialListingID: &listingID}

	assert.True(t, a.SameItem(b))
	assert.False(t, a.SameItem(c))
	assert.False(t, a.SameItem(d))
	assert.False(t, ItemRef{}.SameItem(a))
}

func TestItemRefIsEmpty(t *testing.T) {
	productID := uuid.New()

	assert.True(t, ItemRef{}.IsEmpty())
	assert.False(t, ItemRef{ProductID: &productID}.IsEmpty())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, UserRoleFactory.IsValid())
	assert.False(t, UserRole("superuser").IsValid())

	assert.True(t, ProductConditionLikeNew.IsValid())
	assert.False(t, ProductCondition("excellent").IsValid()) // listing-only grade

	assert.True(t, ListingConditionExcellent.IsValid())
	assert.False(t, ListingCondition("like_new").IsValid()) // product-only grade

	assert.True(t, ItemStatusReserved.IsValid())
	assert.False(t, ItemStatus("archived").IsValid())

	assert.True(t, ReportReasonFraud.IsValid())
	assert.False(t, ReportReason("abuse").IsValid())

	assert.True(t, OrderTypeMaterial.IsValid())
	assert.False(t, OrderType("service").IsValid())

	assert.True(t, OrderStatusInProgress.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())

	assert.True(t, PaymentStatusPartial.IsValid())
	assert.False(t, PaymentStatus("overdue").IsValid())
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellerColumn(t *testing.T) {
	assert.Equal(t, "retailer_id", KindRetailer.SellerColumn())
	assert.Equal(t, "wholesaler_id", KindWholesaler.SellerColumn())
}

func TestDescriptors(t *testing.T) {
	t.Run("Retail", func(t *testing.T) {
		assert.Equal(t, KindRetailer, Retail.Kind)
		assert.Equal(t, "customer_id", Retail.BuyerColumn)
		assert.Equal(t, "shipping_address", Retail.AddressColumn)
		assert.True(t, Retail.OfflinePayment)
	})

	t.Run("Wholesale", func(t *testing.T) {
		assert.Equal(t, KindWholesaler, Wholesale.Kind)
		assert.Equal(t, "retailer_id", Wholesale.BuyerColumn)
		assert.Equal(t, "delivery_address", Wholesale.AddressColumn)
		assert.False(t, Wholesale.OfflinePayment)
	})

	// The two flows must never share tables.
	assert.NotEqual(t, Retail.CartTable, Wholesale.CartTable)
	assert.NotEqual(t, Retail.OrderTable, Wholesale.OrderTable)
	assert.NotEqual(t, Retail.OrderItemTable, Wholesale.OrderItemTable)
}

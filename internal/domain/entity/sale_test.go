package entity

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Las líneas se guardan como JSONB y viajan en la cola local: mismas claves snake_case que la cabecera.
func TestSale_JSONUsaSnakeCaseEnCabeceraYLineas(t *testing.T) {
	cost := decimal.NewFromInt(110)
	sale := Sale{
		ID:            "v-1",
		CustomerName:  DefaultCustomerName,
		PaymentMethod: PaymentCash,
		Items: []SaleItem{{
			ProductID: "p-1", Name: "Filtre", Quantity: 3, Price: decimal.NewFromInt(200), CostPrice: &cost,
		}},
	}

	raw, err := json.Marshal(sale)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "customer_name")
	assert.Contains(t, doc, "payment_method")

	items, ok := doc["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "p-1", line["product_id"])
	assert.Contains(t, line, "cost_price")
	assert.NotContains(t, line, "productId")
	assert.NotContains(t, line, "costPrice")

	supply, err := json.Marshal(SupplyItem{ProductID: "p-1", ProductName: "Filtre", BuyingPrice: decimal.NewFromInt(130)})
	require.NoError(t, err)
	assert.Contains(t, string(supply), `"product_name":"Filtre"`)
	assert.Contains(t, string(supply), `"buying_price"`)
}

package engine

import "strings"

// Motivos de movimiento, tal como los ve el personal de la tienda.
const (
	reasonSale   = "Vente #"
	reasonSupply = "Approvisionnement #"

	openingBalanceReason = "Solde initial"
)

// shortRef referencia corta y legible de un documento a partir de su ID.
func shortRef(id string) string {
	ref := strings.ReplaceAll(id, "-", "")
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}

func saleReason(saleID string) string     { return reasonSale + shortRef(saleID) }
func supplyReason(supplyID string) string { return reasonSupply + shortRef(supplyID) }

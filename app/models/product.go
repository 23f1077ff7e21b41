package models

// Product is a catalog entry with its stock-keeping variants.
type Product struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	SKUs []SKU  `json:"sku"`
}

// SKU is a priced, stocked variant of exactly one Product.
type SKU struct {
	ID                  ID      `json:"id"`
	QuantityInInventory int     `json:"quantity_in_inventory"`
	SellingPrice        float64 `json:"selling_price"`
	Unit                string  `json:"unit"`
	Amount              float64 `json:"amount"`
	MaxRetailPrice      float64 `json:"max_retail_price"`
}

// FindSKU returns the SKU with the given id.
func (p Product) FindSKU(id ID) (SKU, bool) {
	for _, s := range p.SKUs {
		if s.ID == id {
			return s, true
		}
	}
	return SKU{}, false
}

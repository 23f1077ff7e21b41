package orderform

import (
	"strconv"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/optional"
)

// Derive expands the selected products into one line per SKU, in selection
// order and SKU order. Quantity starts at 0, price at the selling price.
func Derive(products []models.Product) []models.LineItemDraft {
	items := make([]models.LineItemDraft, 0, len(products))
	for _, p := range products {
		for _, sku := range p.SKUs {
			item := models.LineItemDraft{
				SKUID:     sku.ID,
				ProductID: p.ID,
				Price:     optional.Of(sku.SellingPrice),
				Quantity:  optional.Of(0),
			}
			attach(&item, sku)
			items = append(items, item)
		}
	}
	return items
}

// Select picks products from the catalog in the order of ids. Unknown ids
// are returned separately; duplicates are selected once.
func Select(catalog []models.Product, ids []models.ID) (selected []models.Product, unknown []models.ID) {
	byID := make(map[models.ID]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	seen := make(map[models.ID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		p, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		selected = append(selected, p)
	}
	return selected, unknown
}

// Rehydrate re-attaches current catalog metadata to persisted lines. Each
// line keeps its own price and quantity. Lines are matched by product id
// and SKU id, falling back to the SKU id alone when the product id is
// missing. Unmatched lines lose their metadata and are marked stale.
func Rehydrate(items []models.LineItemDraft, catalog []models.Product) []models.LineItemDraft {
	idx := newIndex(catalog)

	out := make([]models.LineItemDraft, len(items))
	for i, item := range items {
		sku, productID, ok := idx.lookup(item.ProductID, item.SKUID)
		if !ok {
			item.QuantityInInventory = optional.None[int]()
			item.Unit = optional.None[string]()
			item.Amount = optional.None[string]()
			item.MaxRetailPrice = optional.None[float64]()
			item.Catalog = models.CatalogStale
			out[i] = item
			continue
		}
		item.ProductID = productID
		attach(&item, sku)
		out[i] = item
	}
	return out
}

// Remove drops the line at index i. Out-of-range indexes are ignored.
func Remove(items []models.LineItemDraft, i int) []models.LineItemDraft {
	if i < 0 || i >= len(items) {
		return items
	}
	out := make([]models.LineItemDraft, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func attach(item *models.LineItemDraft, sku models.SKU) {
	item.QuantityInInventory = optional.Of(sku.QuantityInInventory)
	item.Unit = optional.Of(sku.Unit)
	item.Amount = optional.Of(strconv.FormatFloat(sku.Amount, 'f', -1, 64) + " " + sku.Unit)
	item.MaxRetailPrice = optional.Of(sku.MaxRetailPrice)
	item.Catalog = models.CatalogFresh
}

type skuRef struct {
	sku       models.SKU
	productID models.ID
}

type index struct {
	byPair map[[2]models.ID]models.SKU
	bySKU  map[models.ID]skuRef
}

func newIndex(catalog []models.Product) index {
	idx := index{
		byPair: map[[2]models.ID]models.SKU{},
		bySKU:  map[models.ID]skuRef{},
	}
	for _, p := range catalog {
		for _, s := range p.SKUs {
			idx.byPair[[2]models.ID{p.ID, s.ID}] = s
			if _, dup := idx.bySKU[s.ID]; !dup {
				idx.bySKU[s.ID] = skuRef{sku: s, productID: p.ID}
			}
		}
	}
	return idx
}

func (idx index) lookup(productID, skuID models.ID) (models.SKU, models.ID, bool) {
	if !productID.IsZero() {
		s, ok := idx.byPair[[2]models.ID{productID, skuID}]
		return s, productID, ok
	}
	ref, ok := idx.bySKU[skuID]
	return ref.sku, ref.productID, ok
}

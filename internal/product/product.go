package product

// Product types sold by the shop. Custom flower boxes may only contain
// individual flowers; bouquets are pre-assembled and sold as-is.
const (
	TypeIndividualFlower = "individual-flower"
	TypeBouquet          = "bouquet"
)

// Product represents a catalog entry and maps to the `products` table.
// Price and stock are snapshotted onto order line items at checkout, so
// edits here never rewrite past orders.
type Product struct {
	ID           int     `json:"productId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category,omitempty"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Image        string  `json:"image,omitempty"`
	SupplierID   *int    `json:"supplierId,omitempty"`
	IsAvailable  bool    `json:"isAvailable"`
	IsBestseller bool    `json:"isBestseller"`
	ProductType  string  `json:"productType"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Category       string
	ProductType    string
	OnlyAvailable  bool
	OnlyBestseller bool
	MinPrice       *float64
	MaxPrice       *float64
}

package domain

// Product is a single inventory item.
type Product struct {
	ID          int64   `json:"productId"`
	Name        string  `json:"productName"`
	Description string  `json:"productDescription"`
	OutOfStock  bool    `json:"outOfStock"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
}

const (
	ProductNameMaxLen        = 50
	ProductDescriptionMaxLen = 50
)

package handler

import "github.com/ngcore/storefront-api/internal/core/ports"

// productRequest is the body of AddProduct and UpdateProduct. Pointers let
// validation tell a missing price or stock flag from a zero value.
type productRequest struct {
	Name        string   `json:"productName"        validate:"required,max=50"`
	Description string   `json:"productDescription" validate:"required,max=50"`
	Price       *float64 `json:"price"              validate:"required,gte=0"`
	ImageURL    string   `json:"imageUrl"           validate:"required"`
	OutOfStock  *bool    `json:"outOfStock"         validate:"required"`
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		ImageURL:    r.ImageURL,
		OutOfStock:  *r.OutOfStock,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

package models

import "time"

type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Depth  float64 `json:"depth" bson:"depth"`
}

// ProductFields regroupe tout ce que le formulaire admin contrôle.
// L'identité et les timestamps sont gérés par le store.
type ProductFields struct {
	Title                string             `json:"title" bson:"title"`
	Description          string             `json:"description" bson:"description"`
	Category             Category           `json:"category" bson:"category"`
	AvailabilityStatus   AvailabilityStatus `json:"availabilityStatus" bson:"availabilityStatus"`
	ReturnPolicy         ReturnPolicy       `json:"returnPolicy" bson:"returnPolicy"`
	Price                float64            `json:"price" bson:"price"`
	Stock                int                `json:"stock" bson:"stock"`
	Brand                string             `json:"brand" bson:"brand"`
	SKU                  string             `json:"sku" bson:"sku"`
	Weight               float64            `json:"weight" bson:"weight"`
	WarrantyInformation  string             `json:"warrantyInformation" bson:"warrantyInformation"`
	ShippingInformation  string             `json:"shippingInformation" bson:"shippingInformation"`
	MinimumOrderQuantity int                `json:"minimumOrderQuantity" bson:"minimumOrderQuantity"`
	Tags                 []Tag              `json:"tags" bson:"tags"`
	Dimensions           Dimensions         `json:"dimensions" bson:"dimensions"`
}

type Product struct {
	ID            string    `json:"id" bson:"-"`
	ProductFields `bson:",inline"`
	ImageURL      string    `json:"imageUrl" bson:"imageUrl"`
	Images        []string  `json:"images" bson:"images"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductView est la forme renvoyée aux clients : timestamps en RFC 3339.
type ProductView struct {
	ID string `json:"id"`
	ProductFields
	ImageURL  string   `json:"imageUrl"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

const TimestampLayout = time.RFC3339Nano

func (p Product) View() ProductView {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductView{
		ID:            p.ID,
		ProductFields: p.ProductFields,
		ImageURL:      p.ImageURL,
		Images:        images,
		CreatedAt:     p.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt:     p.UpdatedAt.UTC().Format(TimestampLayout),
	}
}

func Views(products []Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View())
	}
	return views
}

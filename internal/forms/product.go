// Package forms remet en forme un formulaire admin soumis, tel que le
// validateur l'attend. Aucune validation ici : les valeurs restent telles que
// saisies pour être renvoyées au formulaire en cas d'échec.
package forms

import (
	"net/url"
	"strings"
)

type RawDimensions struct {
	Width  string `json:"width"`
	Height string `json:"height"`
	Depth  string `json:"depth"`
}

type RawProduct struct {
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	Category             string        `json:"category"`
	AvailabilityStatus   string        `json:"availabilityStatus"`
	ReturnPolicy         string        `json:"returnPolicy"`
	Price                string        `json:"price"`
	Stock                string        `json:"stock"`
	Brand                string        `json:"brand"`
	SKU                  string        `json:"sku"`
	Weight               string        `json:"weight"`
	WarrantyInformation  string        `json:"warrantyInformation"`
	ShippingInformation  string        `json:"shippingInformation"`
	MinimumOrderQuantity string        `json:"minimumOrderQuantity"`
	Tags                 []string      `json:"tags"`
	Dimensions           RawDimensions `json:"dimensions"`
}

// Noms des champs du formulaire HTML.
const (
	FieldTitle                = "title"
	FieldDescription          = "description"
	FieldCategory             = "category"
	FieldAvailabilityStatus   = "availabilityStatus"
	FieldReturnPolicy         = "returnPolicy"
	FieldPrice                = "price"
	FieldStock                = "stock"
	FieldBrand                = "brand"
	FieldSKU                  = "sku"
	FieldWeight               = "weight"
	FieldWarrantyInformation  = "warrantyInformation"
	FieldShippingInformation  = "shippingInformation"
	FieldMinimumOrderQuantity = "minimumOrderQuantity"
	FieldTags                 = "tags"
	FieldDimensionsWidth      = "dimensions.width"
	FieldDimensionsHeight     = "dimensions.height"
	FieldDimensionsDepth      = "dimensions.depth"
	FieldImage                = "image"
	FieldRemoveImage          = "removeImage"
)

// ExtractProduct lit les champs simples, le champ répété "tags" et les
// champs "dimensions.*" réassemblés en sous-objet.
func ExtractProduct(values url.Values) RawProduct {
	return RawProduct{
		Title:                values.Get(FieldTitle),
		Description:          values.Get(FieldDescription),
		Category:             values.Get(FieldCategory),
		AvailabilityStatus:   values.Get(FieldAvailabilityStatus),
		ReturnPolicy:         values.Get(FieldReturnPolicy),
		Price:                values.Get(FieldPrice),
		Stock:                values.Get(FieldStock),
		Brand:                values.Get(FieldBrand),
		SKU:                  values.Get(FieldSKU),
		Weight:               values.Get(FieldWeight),
		WarrantyInformation:  values.Get(FieldWarrantyInformation),
		ShippingInformation:  values.Get(FieldShippingInformation),
		MinimumOrderQuantity: values.Get(FieldMinimumOrderQuantity),
		Tags:                 multiValue(values, FieldTags),
		Dimensions: RawDimensions{
			Width:  values.Get(FieldDimensionsWidth),
			Height: values.Get(FieldDimensionsHeight),
			Depth:  values.Get(FieldDimensionsDepth),
		},
	}
}

// multiValue accepte aussi la convention "tags[]" de certains clients.
func multiValue(values url.Values, name string) []string {
	out := []string{}
	out = append(out, values[name]...)
	out = append(out, values[name+"[]"]...)
	return out
}

// ClearRequested indique si l'utilisateur a explicitement retiré l'image.
func ClearRequested(values url.Values) bool {
	switch strings.ToLower(strings.TrimSpace(values.Get(FieldRemoveImage))) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// Values fait le chemin inverse : utile pour rejouer une soumission
// (tests, clients qui construisent le formulaire à partir d'un struct).
func (r RawProduct) Values() url.Values {
	v := url.Values{}
	v.Set(FieldTitle, r.Title)
	v.Set(FieldDescription, r.Description)
	v.Set(FieldCategory, r.Category)
	v.Set(FieldAvailabilityStatus, r.AvailabilityStatus)
	v.Set(FieldReturnPolicy, r.ReturnPolicy)
	v.Set(FieldPrice, r.Price)
	v.Set(FieldStock, r.Stock)
	v.Set(FieldBrand, r.Brand)
	v.Set(FieldSKU, r.SKU)
	v.Set(FieldWeight, r.Weight)
	v.Set(FieldWarrantyInformation, r.WarrantyInformation)
	v.Set(FieldShippingInformation, r.ShippingInformation)
	v.Set(FieldMinimumOrderQuantity, r.MinimumOrderQuantity)
	for _, t := range r.Tags {
		v.Add(FieldTags, t)
	}
	v.Set(FieldDimensionsWidth, r.Dimensions.Width)
	v.Set(FieldDimensionsHeight, r.Dimensions.Height)
	v.Set(FieldDimensionsDepth, r.Dimensions.Depth)
	return v
}

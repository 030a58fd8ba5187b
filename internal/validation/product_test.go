package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique_back_end/internal/forms"
	"boutique_back_end/internal/models"
)

func validRaw() forms.RawProduct {
	return forms.RawProduct{
		Title:                "Lamp",
		Description:          strings.Repeat("a", 60),
		Category:             "beauty",
		AvailabilityStatus:   "In Stock",
		ReturnPolicy:         "No return policy",
		Price:                "19.99",
		Stock:                "5",
		Brand:                "Lumen",
		SKU:                  "LMP-001",
		Weight:               "1.5",
		WarrantyInformation:  "1 year warranty",
		ShippingInformation:  "Ships in 2 days",
		MinimumOrderQuantity: "1",
		Tags:                 []string{"new"},
		Dimensions:           forms.RawDimensions{Width: "1", Height: "2", Depth: "3"},
	}
}

func TestValidate_ValidSubmissionIsCoerced(t *testing.T) {
	res := NewProductValidator().Validate(validRaw())

	require.True(t, res.OK, "errors: %v", res.Errors)
	assert.Equal(t, "Lamp", res.Data.Title)
	assert.Equal(t, 19.99, res.Data.Price)
	assert.Equal(t, 5, res.Data.Stock)
	assert.Equal(t, models.CategoryBeauty, res.Data.Category)
	assert.Equal(t, models.InStock, res.Data.AvailabilityStatus)
	assert.Equal(t, models.NoReturnPolicy, res.Data.ReturnPolicy)
	assert.Equal(t, []models.Tag{models.TagNew}, res.Data.Tags)
	assert.Equal(t, models.Dimensions{Width: 1, Height: 2, Depth: 3}, res.Data.Dimensions)
	assert.Empty(t, res.Errors)
}

func TestValidate_TrimsStrings(t *testing.T) {
	raw := validRaw()
	raw.Title = "   Lamp  "
	raw.Brand = "  Lumen "

	res := NewProductValidator().Validate(raw)

	require.True(t, res.OK)
	assert.Equal(t, "Lamp", res.Data.Title)
	assert.Equal(t, "Lumen", res.Data.Brand)
}

func TestValidate_OutOfBoundFieldsReportExactlyThatField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*forms.RawProduct)
		field   string
		message string
	}{
		{"short title", func(r *forms.RawProduct) { r.Title = "ab" }, "title", "Title must be at least 3 characters"},
		{"long title", func(r *forms.RawProduct) { r.Title = strings.Repeat("t", 101) }, "title", "Title must be 100 characters or less"},
		{"short description", func(r *forms.RawProduct) { r.Description = "too short" }, "description", "Description must be at least 50 characters"},
		{"negative price", func(r *forms.RawProduct) { r.Price = "-1" }, "price", "Price must be at least 0"},
		{"non numeric price", func(r *forms.RawProduct) { r.Price = "abc" }, "price", "Price must be a number"},
		{"empty price", func(r *forms.RawProduct) { r.Price = "" }, "price", "Price must be a number"},
		{"fractional stock", func(r *forms.RawProduct) { r.Stock = "2.5" }, "stock", "Stock must be a whole number"},
		{"negative stock", func(r *forms.RawProduct) { r.Stock = "-3" }, "stock", "Stock must be at least 0"},
		{"huge stock", func(r *forms.RawProduct) { r.Stock = "1e12" }, "stock", "Stock is too large"},
		{"huge negative stock", func(r *forms.RawProduct) { r.Stock = "-1e12" }, "stock", "Stock must be at least 0"},
		{"huge moq", func(r *forms.RawProduct) { r.MinimumOrderQuantity = "99999999999" }, "minimumOrderQuantity", "Minimum order quantity is too large"},
		{"zero moq", func(r *forms.RawProduct) { r.MinimumOrderQuantity = "0" }, "minimumOrderQuantity", "Minimum order quantity must be at least 1"},
		{"missing brand", func(r *forms.RawProduct) { r.Brand = "  " }, "brand", "Brand is required"},
		{"missing sku", func(r *forms.RawProduct) { r.SKU = "" }, "sku", "SKU is required"},
		{"missing warranty", func(r *forms.RawProduct) { r.WarrantyInformation = "" }, "warrantyInformation", "Warranty information is required"},
		{"negative width", func(r *forms.RawProduct) { r.Dimensions.Width = "-0.1" }, "dimensions.width", "Width must be at least 0"},
		{"bad depth", func(r *forms.RawProduct) { r.Dimensions.Depth = "deep" }, "dimensions.depth", "Depth must be a number"},
		{"unknown category", func(r *forms.RawProduct) { r.Category = "toys" }, "category", "Invalid category. Expected one of: fragrances, beauty, groceries"},
		{"unknown status", func(r *forms.RawProduct) { r.AvailabilityStatus = "Maybe" }, "availabilityStatus", "Invalid availability status. Expected one of: In Stock, Out of Stock"},
		{"unknown policy", func(r *forms.RawProduct) { r.ReturnPolicy = "forever" }, "returnPolicy", "Invalid return policy. Expected one of: No return policy, 7 days return policy, 14 days return policy, 30 days return policy, 60 days return policy, 90 days return policy"},
		{"no tags", func(r *forms.RawProduct) { r.Tags = nil }, "tags", "At least one tag is required"},
		{"unknown tag", func(r *forms.RawProduct) { r.Tags = []string{"new", "shiny"} }, "tags", `Invalid tag "shiny"`},
	}

	v := NewProductValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			res := v.Validate(raw)

			require.False(t, res.OK)
			assert.Len(t, res.Errors, 1, "errors: %v", res.Errors)
			assert.Equal(t, []string{tt.message}, res.Errors[tt.field])
			assert.Equal(t, raw, res.Raw)
		})
	}
}

func TestValidate_TooManyTags(t *testing.T) {
	raw := validRaw()
	raw.Tags = nil
	for i := 0; i < 11; i++ {
		raw.Tags = append(raw.Tags, "vegan")
	}

	res := NewProductValidator().Validate(raw)

	require.False(t, res.OK)
	assert.Equal(t, []string{"You can select up to 10 tags"}, res.Errors["tags"])
}

func TestValidate_DuplicateTagsAreKept(t *testing.T) {
	raw := validRaw()
	raw.Tags = []string{"vegan", "vegan"}

	res := NewProductValidator().Validate(raw)

	require.True(t, res.OK)
	assert.Equal(t, []models.Tag{models.TagVegan, models.TagVegan}, res.Data.Tags)
}

func TestValidate_LengthCountsCharactersNotBytes(t *testing.T) {
	raw := validRaw()
	raw.Title = "éé" // 4 octets, 2 caractères

	res := NewProductValidator().Validate(raw)

	require.False(t, res.OK)
	assert.Contains(t, res.Errors, "title")
}

func TestValidate_CollectsEveryFailingField(t *testing.T) {
	res := NewProductValidator().Validate(forms.RawProduct{})

	require.False(t, res.OK)
	for _, field := range []string{
		"title", "description", "category", "availabilityStatus", "returnPolicy",
		"price", "stock", "brand", "sku", "weight", "warrantyInformation",
		"shippingInformation", "minimumOrderQuantity", "tags",
		"dimensions.width", "dimensions.height", "dimensions.depth",
	} {
		assert.True(t, res.Errors.Has(field), "missing error for %s", field)
	}
}

package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProduct_ReshapesFlatFields(t *testing.T) {
	values := url.Values{
		"title":                {"Lamp"},
		"category":             {"beauty"},
		"price":                {"19.99"},
		"minimumOrderQuantity": {"2"},
		"tags":                 {"new", "vegan"},
		"dimensions.width":     {"1"},
		"dimensions.height":    {"2"},
		"dimensions.depth":     {"3"},
	}

	raw := ExtractProduct(values)

	assert.Equal(t, "Lamp", raw.Title)
	assert.Equal(t, "beauty", raw.Category)
	assert.Equal(t, "19.99", raw.Price)
	assert.Equal(t, "2", raw.MinimumOrderQuantity)
	assert.Equal(t, []string{"new", "vegan"}, raw.Tags)
	assert.Equal(t, RawDimensions{Width: "1", Height: "2", Depth: "3"}, raw.Dimensions)
	assert.Empty(t, raw.Brand)
}

func TestExtractProduct_BracketTags(t *testing.T) {
	raw := ExtractProduct(url.Values{"tags[]": {"organic", "limited"}})

	assert.Equal(t, []string{"organic", "limited"}, raw.Tags)
}

func TestExtractProduct_NoTagsGivesEmptySlice(t *testing.T) {
	raw := ExtractProduct(url.Values{})

	assert.NotNil(t, raw.Tags)
	assert.Empty(t, raw.Tags)
}

func TestValuesRoundTrip(t *testing.T) {
	raw := RawProduct{
		Title:      "Lamp",
		Price:      "3",
		Tags:       []string{"new"},
		Dimensions: RawDimensions{Width: "1", Height: "2", Depth: "3"},
	}

	assert.Equal(t, raw, ExtractProduct(raw.Values()))
}

func TestClearRequested(t *testing.T) {
	assert.True(t, ClearRequested(url.Values{"removeImage": {"true"}}))
	assert.True(t, ClearRequested(url.Values{"removeImage": {"on"}}))
	assert.False(t, ClearRequested(url.Values{"removeImage": {"false"}}))
	assert.False(t, ClearRequested(url.Values{}))
}

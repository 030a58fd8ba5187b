package models

import (
	"fmt"
	"strings"
)

// Vocabulaires fermés du catalogue. Chaque Parse* fait un switch exhaustif,
// aucune autre valeur ne peut entrer dans un Product.

type Category string

const (
	CategoryFragrances Category = "fragrances"
	CategoryBeauty     Category = "beauty"
	CategoryGroceries  Category = "groceries"
)

var Categories = []Category{CategoryFragrances, CategoryBeauty, CategoryGroceries}

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryFragrances, CategoryBeauty, CategoryGroceries:
		return c, nil
	}
	return "", fmt.Errorf("invalid category %q", s)
}

type AvailabilityStatus string

const (
	InStock    AvailabilityStatus = "In Stock"
	OutOfStock AvailabilityStatus = "Out of Stock"
)

var AvailabilityStatuses = []AvailabilityStatus{InStock, OutOfStock}

func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch a := AvailabilityStatus(s); a {
	case InStock, OutOfStock:
		return a, nil
	}
	return "", fmt.Errorf("invalid availability status %q", s)
}

type ReturnPolicy string

const (
	NoReturnPolicy ReturnPolicy = "No return policy"
	Return7Days    ReturnPolicy = "7 days return policy"
	Return14Days   ReturnPolicy = "14 days return policy"
	Return30Days   ReturnPolicy = "30 days return policy"
	Return60Days   ReturnPolicy = "60 days return policy"
	Return90Days   ReturnPolicy = "90 days return policy"
)

var ReturnPolicies = []ReturnPolicy{NoReturnPolicy, Return7Days, Return14Days, Return30Days, Return60Days, Return90Days}

func ParseReturnPolicy(s string) (ReturnPolicy, error) {
	switch r := ReturnPolicy(s); r {
	case NoReturnPolicy, Return7Days, Return14Days, Return30Days, Return60Days, Return90Days:
		return r, nil
	}
	return "", fmt.Errorf("invalid return policy %q", s)
}

type Tag string

const (
	TagVegan      Tag = "vegan"
	TagOrganic    Tag = "organic"
	TagBestseller Tag = "bestseller"
	TagNew        Tag = "new"
	TagLimited    Tag = "limited"
)

var Tags = []Tag{TagVegan, TagOrganic, TagBestseller, TagNew, TagLimited}

func ParseTag(s string) (Tag, error) {
	switch t := Tag(s); t {
	case TagVegan, TagOrganic, TagBestseller, TagNew, TagLimited:
		return t, nil
	}
	return "", fmt.Errorf("invalid tag %q", s)
}

// JoinValues formate un vocabulaire pour les messages d'erreur.
func JoinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Package validation transforme un formulaire admin brut en champs produit
// typés, ou en erreurs indexées par chemin de champ.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"boutique_back_end/internal/forms"
	"boutique_back_end/internal/models"
)

// FieldErrors associe un chemin de champ ("title", "dimensions.width") à ses messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// Result ne porte jamais d'erreur Go : soit OK et Data, soit Errors et Raw.
type Result struct {
	OK     bool
	Data   models.ProductFields
	Errors FieldErrors
	Raw    forms.RawProduct
}

type dimensionsInput struct {
	Width  float64 `form:"width" validate:"gte=0"`
	Height float64 `form:"height" validate:"gte=0"`
	Depth  float64 `form:"depth" validate:"gte=0"`
}

// productInput est la forme typée sur laquelle tournent les règles validator.
type productInput struct {
	Title                string          `form:"title" validate:"min=3,max=100"`
	Description          string          `form:"description" validate:"min=50,max=1000"`
	Category             string          `form:"category" validate:"category"`
	AvailabilityStatus   string          `form:"availabilityStatus" validate:"availability"`
	ReturnPolicy         string          `form:"returnPolicy" validate:"returnpolicy"`
	Price                float64         `form:"price" validate:"gte=0"`
	Stock                int             `form:"stock" validate:"gte=0"`
	Brand                string          `form:"brand" validate:"min=1,max=100"`
	SKU                  string          `form:"sku" validate:"min=1,max=100"`
	Weight               float64         `form:"weight" validate:"gte=0"`
	WarrantyInformation  string          `form:"warrantyInformation" validate:"min=1,max=1000"`
	ShippingInformation  string          `form:"shippingInformation" validate:"min=1,max=1000"`
	MinimumOrderQuantity int             `form:"minimumOrderQuantity" validate:"gte=1"`
	Tags                 []string        `form:"tags" validate:"min=1,max=10,dive,producttag"`
	Dimensions           dimensionsInput `form:"dimensions"`
}

var labels = map[string]string{
	forms.FieldTitle:                "Title",
	forms.FieldDescription:          "Description",
	forms.FieldPrice:                "Price",
	forms.FieldStock:                "Stock",
	forms.FieldBrand:                "Brand",
	forms.FieldSKU:                  "SKU",
	forms.FieldWeight:               "Weight",
	forms.FieldWarrantyInformation:  "Warranty information",
	forms.FieldShippingInformation:  "Shipping information",
	forms.FieldMinimumOrderQuantity: "Minimum order quantity",
	forms.FieldDimensionsWidth:      "Width",
	forms.FieldDimensionsHeight:     "Height",
	forms.FieldDimensionsDepth:      "Depth",
}

var indexSuffix = regexp.MustCompile(`\[\d+\]`)

type ProductValidator struct {
	validate *validator.Validate
}

func NewProductValidator() *ProductValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "category", func(s string) error { _, err := models.ParseCategory(s); return err })
	mustRegister(v, "availability", func(s string) error { _, err := models.ParseAvailabilityStatus(s); return err })
	mustRegister(v, "returnpolicy", func(s string) error { _, err := models.ParseReturnPolicy(s); return err })
	mustRegister(v, "producttag", func(s string) error { _, err := models.ParseTag(s); return err })
	return &ProductValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, parse func(string) error) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return parse(fl.Field().String()) == nil
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Validate nettoie les chaînes, convertit les nombres puis applique les règles.
// Un champ dont la conversion a échoué ne reçoit pas en plus une erreur de borne.
func (pv *ProductValidator) Validate(raw forms.RawProduct) Result {
	errs := FieldErrors{}
	in := productInput{
		Title:               strings.TrimSpace(raw.Title),
		Description:         strings.TrimSpace(raw.Description),
		Category:            strings.TrimSpace(raw.Category),
		AvailabilityStatus:  strings.TrimSpace(raw.AvailabilityStatus),
		ReturnPolicy:        strings.TrimSpace(raw.ReturnPolicy),
		Brand:               strings.TrimSpace(raw.Brand),
		SKU:                 strings.TrimSpace(raw.SKU),
		WarrantyInformation: strings.TrimSpace(raw.WarrantyInformation),
		ShippingInformation: strings.TrimSpace(raw.ShippingInformation),
		Tags:                cleanTags(raw.Tags),
	}

	in.Price = coerceNumber(errs, forms.FieldPrice, raw.Price)
	in.Weight = coerceNumber(errs, forms.FieldWeight, raw.Weight)
	in.Dimensions.Width = coerceNumber(errs, forms.FieldDimensionsWidth, raw.Dimensions.Width)
	in.Dimensions.Height = coerceNumber(errs, forms.FieldDimensionsHeight, raw.Dimensions.Height)
	in.Dimensions.Depth = coerceNumber(errs, forms.FieldDimensionsDepth, raw.Dimensions.Depth)
	in.Stock = coerceInt(errs, forms.FieldStock, raw.Stock)
	in.MinimumOrderQuantity = coerceInt(errs, forms.FieldMinimumOrderQuantity, raw.MinimumOrderQuantity)
	coerced := make(map[string]bool, len(errs))
	for field := range errs {
		coerced[field] = true
	}

	if err := pv.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("_form", err.Error())
		}
		for _, fe := range verrs {
			field := fieldPath(fe)
			if coerced[field] {
				continue
			}
			errs.Add(field, message(field, fe))
		}
	}

	if len(errs) > 0 {
		return Result{Errors: errs, Raw: raw}
	}
	return Result{OK: true, Data: in.fields(), Raw: raw}
}

// fields est appelé uniquement après validation : les Parse* ne peuvent plus échouer.
func (in productInput) fields() models.ProductFields {
	category, _ := models.ParseCategory(in.Category)
	status, _ := models.ParseAvailabilityStatus(in.AvailabilityStatus)
	policy, _ := models.ParseReturnPolicy(in.ReturnPolicy)
	tags := make([]models.Tag, 0, len(in.Tags))
	for _, t := range in.Tags {
		tag, _ := models.ParseTag(t)
		tags = append(tags, tag)
	}
	return models.ProductFields{
		Title:                in.Title,
		Description:          in.Description,
		Category:             category,
		AvailabilityStatus:   status,
		ReturnPolicy:         policy,
		Price:                in.Price,
		Stock:                in.Stock,
		Brand:                in.Brand,
		SKU:                  in.SKU,
		Weight:               in.Weight,
		WarrantyInformation:  in.WarrantyInformation,
		ShippingInformation:  in.ShippingInformation,
		MinimumOrderQuantity: in.MinimumOrderQuantity,
		Tags:                 tags,
		Dimensions: models.Dimensions{
			Width:  in.Dimensions.Width,
			Height: in.Dimensions.Height,
			Depth:  in.Dimensions.Depth,
		},
	}
}

// Les cases à cocher vides envoyées par certains navigateurs sont ignorées.
func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func coerceNumber(errs FieldErrors, field, s string) float64 {
	n, ok := parseNumber(s)
	if !ok {
		errs.Add(field, labels[field]+" must be a number")
	}
	return n
}

func coerceInt(errs FieldErrors, field, s string) int {
	n, ok := parseNumber(s)
	if !ok {
		errs.Add(field, labels[field]+" must be a number")
		return 0
	}
	if n != math.Trunc(n) {
		errs.Add(field, labels[field]+" must be a whole number")
		return 0
	}
	if n > math.MaxInt32 {
		errs.Add(field, labels[field]+" is too large")
		return 0
	}
	// très négatif : la règle de borne inférieure donne le message
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

// fieldPath convertit "productInput.dimensions.width" en "dimensions.width"
// et "productInput.tags[2]" en "tags".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return indexSuffix.ReplaceAllString(ns, "")
}

func message(field string, fe validator.FieldError) string {
	label := labels[field]
	switch fe.Tag() {
	case "category":
		return "Invalid category. Expected one of: " + models.JoinValues(models.Categories)
	case "availability":
		return "Invalid availability status. Expected one of: " + models.JoinValues(models.AvailabilityStatuses)
	case "returnpolicy":
		return "Invalid return policy. Expected one of: " + models.JoinValues(models.ReturnPolicies)
	case "producttag":
		return fmt.Sprintf("Invalid tag %q", fe.Value())
	}

	if field == forms.FieldTags {
		if fe.Tag() == "min" {
			return "At least one tag is required"
		}
		return "You can select up to " + fe.Param() + " tags"
	}

	switch fe.Tag() {
	case "min":
		if fe.Param() == "1" {
			return label + " is required"
		}
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		return label + " must be " + fe.Param() + " characters or less"
	case "gte":
		return label + " must be at least " + fe.Param()
	}
	return fmt.Sprintf("%s failed on the '%s' rule", label, fe.Tag())
}

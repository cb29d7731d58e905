package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError identifies the first product form rule that failed.
type ValidationError string

const (
	MissingImage    ValidationError = "missing_image"
	MissingName     ValidationError = "missing_name"
	InvalidQuantity ValidationError = "invalid_quantity"
	InvalidPrice    ValidationError = "invalid_price"
	MissingExpiry   ValidationError = "missing_expiry"
)

var validationMessages = map[ValidationError]string{
	MissingImage:    "Please enter an image URL",
	MissingName:     "Please enter product name",
	InvalidQuantity: "Please enter valid quantity",
	InvalidPrice:    "Please enter valid price",
	MissingExpiry:   "Please enter expiry date (YYYY-MM-DD)",
}

func (e ValidationError) Error() string {
	return validationMessages[e]
}

// Code returns the stable machine-readable identifier.
func (e ValidationError) Code() string {
	return string(e)
}

var (
	quantityInput = regexp.MustCompile(`^\d*$`)
	priceInput    = regexp.MustCompile(`^\d*\.?\d*$`)
)

// AcceptQuantityInput reports whether s may be typed into the quantity field.
func AcceptQuantityInput(s string) bool {
	return quantityInput.MatchString(s)
}

// AcceptPriceInput reports whether s may be typed into the price field.
func AcceptPriceInput(s string) bool {
	return priceInput.MatchString(s)
}

// Validate checks the form rules in order and returns the first failure,
// or nil when every field is acceptable.
func Validate(f ProductForm) error {
	if strings.TrimSpace(f.ImageURL) == "" {
		return MissingImage
	}
	if strings.TrimSpace(f.Name) == "" {
		return MissingName
	}
	if _, ok := parseQuantity(f.Quantity); !ok {
		return InvalidQuantity
	}
	if _, ok := parsePrice(f.Price); !ok {
		return InvalidPrice
	}
	if strings.TrimSpace(f.ExpiryDate) == "" {
		return MissingExpiry
	}
	return nil
}

// Parse validates the form and converts it into a Product without an ID.
func (f ProductForm) Parse() (Product, error) {
	if err := Validate(f); err != nil {
		return Product{}, err
	}
	quantity, _ := parseQuantity(f.Quantity)
	price, _ := parsePrice(f.Price)
	return Product{
		ImageURL:   strings.TrimSpace(f.ImageURL),
		Name:       strings.TrimSpace(f.Name),
		Quantity:   quantity,
		Price:      price,
		ExpiryDate: strings.TrimSpace(f.ExpiryDate),
	}, nil
}

// parseQuantity accepts positive whole numbers; Product.Quantity is an int.
func parseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}

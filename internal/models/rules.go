package models

import (
	"math"
	"regexp"
)

// Field limits shared by the services and the HTTP binding layer.
const (
	MaxUsernameLength    = 150
	MaxEmailLength       = 254
	MaxListingNameLength = 200
	MaxDescriptionLength = 1000
	MaxImageURLLength    = 200
	MaxCommentLength     = 1000

	// MaxAmount is the largest value a 6-digit, 2-decimal price can hold.
	MaxAmount = 9999.99
)

// DefaultCategory is assigned when a listing is created without one.
const DefaultCategory = "Other"

// Categories is the fixed set a listing category must belong to.
var Categories = []string{
	"Fashion",
	"Electronics",
	"Home & Garden",
	"Toy & Games",
	"Collectibles",
	"Sports & Outdoors",
	"Books & Magazines",
	"Automotives",
	"Music & Entertainment",
	"Art & Crafts",
	"Food & Beverages",
	"Pets",
	DefaultCategory,
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsValidUsername reports whether the username has an allowed length and charset.
func IsValidUsername(u string) bool {
	return len(u) > 0 && len(u) <= MaxUsernameLength && usernamePattern.MatchString(u)
}

// IsValidAmount reports whether a is a positive price with at most two decimals
// that fits the storage precision.
func IsValidAmount(a float64) bool {
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 || a > MaxAmount {
		return false
	}
	cents := a * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// RoundAmount snaps a to whole cents.
func RoundAmount(a float64) float64 {
	return math.Round(a*100) / 100
}

package service

import (
	"math"
	"strconv"
)

// roundDown truncates value to places decimal places. Order sizes always
// round toward zero so a sized order can never exceed what the quote
// budget or position covers.
func roundDown(value float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Floor(value*scale) / scale
}

// roundUp rounds value up to places decimal places. Short-side stop
// triggers round up so the protection arms no later than requested.
func roundUp(value float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Ceil(value*scale) / scale
}

// roundNearest rounds value to places decimal places.
func roundNearest(value float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

// formatDecimal renders a value with exactly places decimals, the form
// the exchange expects for price and size fields.
func formatDecimal(value float64, places int) string {
	if places < 0 {
		places = 0
	}
	return strconv.FormatFloat(value, 'f', places, 64)
}

package service

import (
	"math"
	"time"
)

const (
	ServiceFeeRate = 0.14
	TaxRate        = 0.05
)

// Price is the breakdown charged for a stay. Every component is rounded to
// cents and Total is the sum of the rounded components.
type Price struct {
	NightlyRate float64
	Nights      int
	Subtotal    float64
	CleaningFee float64
	ServiceFee  float64
	Taxes       float64
	Total       float64
}

func CalculatePrice(nightlyRate float64, nights int, cleaningFee float64) Price {
	subtotal := roundCents(nightlyRate * float64(nights))
	cleaning := roundCents(cleaningFee)
	serviceFee := roundCents(subtotal * ServiceFeeRate)
	taxes := roundCents(subtotal * TaxRate)

	return Price{
		NightlyRate: nightlyRate,
		Nights:      nights,
		Subtotal:    subtotal,
		CleaningFee: cleaning,
		ServiceFee:  serviceFee,
		Taxes:       taxes,
		Total:       roundCents(subtotal + cleaning + serviceFee + taxes),
	}
}

// Nights counts started days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

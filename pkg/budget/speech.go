package budget

import (
	"fmt"
	"strconv"
)

// fractionWords maps known lakh amounts to spoken phrases. Values outside
// the table fall back to their decimal string.
var fractionWords = map[float64]string{
	0.25: "point two five",
	0.30: "point three",
	0.40: "point four",
	0.50: "point five",
	0.60: "point six",
	0.70: "point seven",
	0.80: "point eight",
	0.90: "point nine",
	1.25: "one point two five",
	1.30: "one point three",
	1.40: "one point four",
	1.50: "one point five",
	1.60: "one point six",
	1.70: "one point seven",
	1.80: "one point eight",
	1.90: "one point nine",
}

// FormatLakhs renders a lakh amount the way it should be spoken.
// Whole amounts are singular ("1 lakh", never "one point zero zero").
func FormatLakhs(value float64) string {
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d lakh", int64(value))
	}
	if words, ok := fractionWords[value]; ok {
		return words + " lakhs"
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " lakhs"
}

// FormatForSpeech renders a breakdown as a natural-language line for the
// TTS pipeline. Presentation only; the underlying values are untouched.
func FormatForSpeech(b Breakdown) string {
	return fmt.Sprintf(
		"Décor: ₹%s, Photography: ₹%s, Catering: ₹%s. Total estimated budget: ₹%s.",
		FormatLakhs(b.DecorLakhs),
		FormatLakhs(b.PhotographyLakhs),
		FormatLakhs(b.CateringLakhs),
		FormatLakhs(b.TotalLakhs),
	)
}

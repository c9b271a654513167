// Package fallback synthesizes medication detail from a fixed defaults
// table when structured generation is unavailable or invalid. Format is
// a pure function and never fails, which is what makes it a safety net.
package fallback

import "medrag/internal/domain"

type details struct {
	dosage       string
	frequency    string
	timing       string
	duration     string
	quantity     int
	instructions string
}

// defaults maps common drug names to standard over-the-counter dosing.
// Quantities are consistent with frequency x duration.
var defaults = map[string]details{
	"Acetaminophen":          {"500mg", "every 6 hours", "as needed for fever", "3 days", 12, "Do not exceed 4000mg per day."},
	"Ibuprofen":              {"400mg", "twice daily", "with meals", "5 days", 10, "Take with food to prevent stomach upset."},
	"Cetirizine":             {"10mg", "once daily", "in the evening", "7 days", 7, "May cause drowsiness."},
	"Loratadine":             {"10mg", "once daily", "in the morning", "7 days", 7, "Non-drowsy formula."},
	"Antacid":                {"10ml", "thrice daily", "after meals", "5 days", 1, "Shake well before use."},
	"Ondansetron":            {"4mg", "twice daily", "as needed for nausea", "3 days", 6, "Allow to dissolve on tongue."},
	"Loperamide":             {"2mg", "after each loose stool", "as needed", "2 days", 8, "Do not exceed 16mg per day."},
	"Naproxen":               {"250mg", "twice daily", "with meals", "5 days", 10, "For pain and inflammation."},
	"Hydrocortisone Cream":   {"1% cream", "twice daily", "morning and evening", "7 days", 1, "Apply a thin layer to the affected area."},
	"Dextromethorphan Syrup": {"10ml", "every 6 hours", "as needed for cough", "5 days", 1, "For dry, non-productive cough only."},
}

// Format returns default medication detail for the drug name. Unknown
// names receive a generic "as directed" tuple with quantity 1.
func Format(drugName string) domain.Medication {
	d, ok := defaults[drugName]
	if !ok {
		d = details{
			dosage:       "As directed",
			frequency:    "As directed",
			timing:       "As directed",
			duration:     "As directed",
			quantity:     1,
			instructions: "Follow physician's instructions.",
		}
	}
	return domain.Medication{
		Name:         drugName,
		Dosage:       d.dosage,
		Frequency:    d.frequency,
		Timing:       d.timing,
		Duration:     d.duration,
		Quantity:     d.quantity,
		Instructions: d.instructions,
	}
}

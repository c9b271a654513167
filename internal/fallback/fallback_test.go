package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKnownDrug(t *testing.T) {
	med := Format("Ibuprofen")
	assert.Equal(t, "Ibuprofen", med.Name)
	assert.Equal(t, "400mg", med.Dosage)
	assert.Equal(t, "twice daily", med.Frequency)
	assert.Equal(t, "5 days", med.Duration)
	assert.Equal(t, 10, med.Quantity)
}

func TestFormatUnknownDrug(t *testing.T) {
	med := Format("Obscuramycin")
	assert.Equal(t, "Obscuramycin", med.Name)
	assert.Equal(t, "As directed", med.Dosage)
	assert.Equal(t, "As directed", med.Frequency)
	assert.Equal(t, 1, med.Quantity)
	assert.NotEmpty(t, med.Instructions)
}

// Quantity must equal administrations per day times duration in days
// for every curated entry with a countable frequency.
func TestQuantityConsistency(t *testing.T) {
	cases := []struct {
		drug    string
		perDay  int
		days    int
	}{
		{"Acetaminophen", 4, 3},  // every 6 hours for 3 days
		{"Ibuprofen", 2, 5},      // twice daily for 5 days
		{"Cetirizine", 1, 7},     // once daily for 7 days
		{"Loratadine", 1, 7},     // once daily for 7 days
		{"Ondansetron", 2, 3},    // twice daily for 3 days
		{"Naproxen", 2, 5},       // twice daily for 5 days
	}
	for _, tc := range cases {
		med := Format(tc.drug)
		assert.Equal(t, tc.perDay*tc.days, med.Quantity, tc.drug)
	}
}

func TestFormatNeverReturnsEmptyFields(t *testing.T) {
	for _, name := range []string{"Acetaminophen", "Antacid", "Hydrocortisone Cream", "SomethingUnknown"} {
		med := Format(name)
		assert.NotEmpty(t, med.Name, name)
		assert.NotEmpty(t, med.Dosage, name)
		assert.NotEmpty(t, med.Frequency, name)
		assert.NotEmpty(t, med.Timing, name)
		assert.NotEmpty(t, med.Duration, name)
		assert.Positive(t, med.Quantity, name)
		assert.NotEmpty(t, med.Instructions, name)
	}
}

// Table keys are exact; a lower-cased known name falls through to the
// generic tuple.
func TestFormatKeysAreCaseSensitive(t *testing.T) {
	med := Format("loperamide")
	assert.Equal(t, "As directed", med.Dosage)
	assert.Equal(t, 1, med.Quantity)
}

package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/taxonomy"
)

func strPtr(s string) *string {
	return &s
}

func testRegistry(t *testing.T) *taxonomy.Registry {
	t.Helper()
	reg, err := taxonomy.NewWithOptions(
		[]string{"Payslips", "Bank Statements", "Passport", "Driver's Licence"},
		taxonomy.Options{Version: "test-1"},
	)
	require.NoError(t, err)
	return reg
}

func TestAccumulator_Add(t *testing.T) {
	tests := []struct {
		label             *string
		name              string
		wantCounts        map[string]int
		wantUnknown       map[string]int
		wantUnclassified  int
		wantNotApplicable int
	}{
		{
			name:       "registered label",
			label:      strPtr("Payslips"),
			wantCounts: map[string]int{"Payslips": 1},
		},
		{
			name:             "nil label is unclassified",
			label:            nil,
			wantUnclassified: 1,
		},
		{
			name:              "NA sentinel is not applicable",
			label:             strPtr("NA"),
			wantNotApplicable: 1,
		},
		{
			name:        "lowercase na is an ordinary unknown label",
			label:       strPtr("na"),
			wantUnknown: map[string]int{"na": 1},
		},
		{
			name:        "slashed N/A is an ordinary unknown label",
			label:       strPtr("N/A"),
			wantUnknown: map[string]int{"N/A": 1},
		},
		{
			name:        "unregistered label",
			label:       strPtr("Paystub"),
			wantUnknown: map[string]int{"Paystub": 1},
		},
		{
			name:        "case mismatch does not match the registry",
			label:       strPtr("payslips"),
			wantUnknown: map[string]int{"payslips": 1},
		},
		{
			name:        "surrounding whitespace does not match the registry",
			label:       strPtr(" Payslips"),
			wantUnknown: map[string]int{" Payslips": 1},
		},
		{
			name:        "empty string is an unknown label, not unclassified",
			label:       strPtr(""),
			wantUnknown: map[string]int{"": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator(testRegistry(t))
			acc.Add(tt.label)

			res := Report(acc)
			assert.Equal(t, 1, res.TotalRecords)
			assert.Equal(t, tt.wantUnclassified, res.Unclassified)
			assert.Equal(t, tt.wantNotApplicable, res.NotApplicable)

			for label, n := range tt.wantCounts {
				assert.Equal(t, n, res.Counts[label], "count for %q", label)
			}
			if tt.wantUnknown == nil {
				assert.Empty(t, res.UnknownLabels)
			} else {
				assert.Equal(t, tt.wantUnknown, res.UnknownLabels)
			}
		})
	}
}

func TestAccumulator_NotApplicableBeatsRegistry(t *testing.T) {
	// Even if someone registers "NA" as a category, the sentinel rule
	// applies first: such records are never counted as category usage.
	reg, err := taxonomy.New([]string{"Payslips", "NA"})
	require.NoError(t, err)

	acc := NewAccumulator(reg)
	acc.Add(strPtr("NA"))

	res := Report(acc)
	assert.Equal(t, 1, res.NotApplicable)
	assert.Equal(t, 0, res.Counts["NA"])
	assert.NotContains(t, res.Used, "NA")
	assert.Empty(t, res.UnknownLabels)
}

func TestAccumulator_AddRecord(t *testing.T) {
	acc := NewAccumulator(testRegistry(t))
	acc.AddRecord(Record{Label: strPtr("Passport")})
	acc.AddRecord(Record{})

	res := Report(acc)
	assert.Equal(t, 2, res.TotalRecords)
	assert.Equal(t, 1, res.Counts["Passport"])
	assert.Equal(t, 1, res.Unclassified)
}

func TestAccumulator_Merge(t *testing.T) {
	reg := testRegistry(t)

	a := NewAccumulator(reg)
	a.Add(strPtr("Payslips"))
	a.Add(strPtr("Paystub"))
	a.Add(nil)

	b := NewAccumulator(reg)
	b.Add(strPtr("Payslips"))
	b.Add(strPtr("Passport"))
	b.Add(strPtr("NA"))
	b.Add(strPtr("Paystub"))

	require.NoError(t, a.Merge(b))

	res := Report(a)
	assert.Equal(t, 7, res.TotalRecords)
	assert.Equal(t, 2, res.Counts["Payslips"])
	assert.Equal(t, 1, res.Counts["Passport"])
	assert.Equal(t, map[string]int{"Paystub": 2}, res.UnknownLabels)
	assert.Equal(t, 1, res.Unclassified)
	assert.Equal(t, 1, res.NotApplicable)
}

func TestAccumulator_MergeCommutative(t *testing.T) {
	reg := testRegistry(t)

	build := func(labels ...*string) *Accumulator {
		acc := NewAccumulator(reg)
		for _, label := range labels {
			acc.Add(label)
		}
		return acc
	}

	left := build(strPtr("Payslips"), nil, strPtr("Paystub"))
	right := build(strPtr("Passport"), strPtr("NA"), strPtr("Payslips"))

	ab := build(strPtr("Payslips"), nil, strPtr("Paystub"))
	require.NoError(t, ab.Merge(right))

	ba := build(strPtr("Passport"), strPtr("NA"), strPtr("Payslips"))
	require.NoError(t, ba.Merge(left))

	assert.Equal(t, Report(ab), Report(ba))
}

func TestAccumulator_MergeRegistryMismatch(t *testing.T) {
	a := NewAccumulator(testRegistry(t))
	b := NewAccumulator(testRegistry(t))

	err := a.Merge(b)
	require.ErrorIs(t, err, ErrRegistryMismatch)

	// The failed merge must leave the target untouched.
	assert.Equal(t, 0, a.Total())
}

func TestAccumulator_MergeNil(t *testing.T) {
	a := NewAccumulator(testRegistry(t))
	a.Add(strPtr("Payslips"))

	require.NoError(t, a.Merge(nil))
	assert.Equal(t, 1, a.Total())
}

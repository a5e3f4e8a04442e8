package processors

import (
	"testing"
	"time"

	"github.com/krllms-wq/CapTablePro8-sub000/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteInstrument(principal string, issueDate time.Time, terms models.NoteTerms) models.ConvertibleInstrument {
	return models.ConvertibleInstrument{
		ID:        "note-1",
		HolderID:  "holder-1",
		Principal: dec(principal),
		IssueDate: issueDate,
		Note:      &terms,
	}
}

func TestAccruedInterest(t *testing.T) {
	t.Parallel()

	issued := date(2023, time.January, 1)
	principal := dec("100000")
	rate := decPtr("0.05")

	tests := []struct {
		name     string
		rate     *decimal.Decimal
		asOf     time.Time
		expected string
	}{
		{"no_rate", nil, issued.AddDate(1, 0, 0), "0"},
		{"same_day", rate, issued, "0"},
		{"as_of_before_issue", rate, issued.AddDate(0, 0, -30), "0"},
		{"73_days", rate, issued.AddDate(0, 0, 73), "1000.00"},
		{"146_days", rate, issued.AddDate(0, 0, 146), "2000.00"},
		{"full_year", rate, issued.AddDate(0, 0, 365), "5000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccruedInterest(principal, tt.rate, issued, tt.asOf)
			assert.True(t, got.Equal(dec(tt.expected)), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestConvertNoteWithInterestAndDiscount(t *testing.T) {
	t.Parallel()

	// $100k at 5% for a year accrues $5k. The 20% discount on a $2.00
	// round price converts the $105k total at $1.60.
	issued := date(2023, time.January, 1)
	instr := noteInstrument("100000", issued, models.NoteTerms{
		DiscountRate: decPtr("0.20"),
		InterestRate: decPtr("0.05"),
	})

	conv, err := ConvertNote(instr, dec("2.00"), issued.AddDate(0, 0, 365), 10_000_000)
	require.NoError(t, err)

	assert.True(t, conv.InterestAmount.Equal(dec("5000.00")))
	assert.True(t, conv.TotalAmount.Equal(dec("105000.00")))
	assert.True(t, conv.ConversionPrice.Equal(dec("1.6")))
	assert.Equal(t, int64(65_625), conv.SharesIssued)
}

func TestConvertNoteCapWins(t *testing.T) {
	t.Parallel()

	issued := date(2023, time.January, 1)
	instr := noteInstrument("100000", issued, models.NoteTerms{
		DiscountRate: decPtr("0.20"),
		ValuationCap: decPtr("4000000"),
	})

	// Cap price 4M / 10M = 0.40 undercuts the 1.60 discount price.
	conv, err := ConvertNote(instr, dec("2.00"), issued, 10_000_000)
	require.NoError(t, err)

	assert.True(t, conv.ConversionPrice.Equal(dec("0.4")))
	assert.Equal(t, int64(250_000), conv.SharesIssued)
	assert.True(t, conv.InterestAmount.IsZero())
}

func TestConvertNoteErrors(t *testing.T) {
	t.Parallel()

	issued := date(2023, time.January, 1)

	t.Run("not_a_note", func(t *testing.T) {
		instr := models.ConvertibleInstrument{Principal: dec("100000"), SAFE: &models.SAFETerms{}}
		_, err := ConvertNote(instr, dec("2.00"), issued, 1_000_000)
		var ce *models.ConfigurationError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("zero_principal", func(t *testing.T) {
		_, err := ConvertNote(noteInstrument("0", issued, models.NoteTerms{}), dec("2.00"), issued, 1_000_000)
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("missing_price", func(t *testing.T) {
		_, err := ConvertNote(noteInstrument("100000", issued, models.NoteTerms{}), decimal.Zero, issued, 1_000_000)
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestEvaluateTrigger(t *testing.T) {
	t.Parallel()

	maturity := date(2025, time.June, 1)
	note := noteInstrument("100000", date(2023, time.January, 1), models.NoteTerms{MaturityDate: &maturity})

	tests := []struct {
		name      string
		instr     models.ConvertibleInstrument
		asOf      time.Time
		financing bool
		expected  TriggerState
	}{
		{"not_triggered", note, date(2024, time.January, 1), false, TriggerState{}},
		{"financing", note, date(2024, time.January, 1), true, TriggerState{Triggered: true, Reason: TriggerReasonFinancing}},
		{"maturity", note, date(2025, time.June, 1), false, TriggerState{Triggered: true, Reason: TriggerReasonMaturity}},
		{"maturity_beats_financing", note, date(2025, time.July, 1), true, TriggerState{Triggered: true, Reason: TriggerReasonMaturity}},
		{
			name:      "no_maturity_date",
			instr:     noteInstrument("100000", date(2023, time.January, 1), models.NoteTerms{}),
			asOf:      date(2030, time.January, 1),
			financing: false,
			expected:  TriggerState{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateTrigger(tt.instr, tt.asOf, tt.financing))
		})
	}
}

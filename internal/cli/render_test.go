package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCards(t *testing.T) {
	limit := model.MustAmount("1500")
	balance := model.MustAmount("320.5")
	cards := []model.Card{
		{ID: 1, Name: "Visa", Kind: model.CardKindCredit, Limit: &limit},
		{ID: 2, Name: "Nubank", Kind: model.CardKindDebit, Balance: &balance},
	}

	var out bytes.Buffer
	require.NoError(t, RenderCards(&out, cards))

	s := out.String()
	assert.Contains(t, s, "Visa")
	assert.Contains(t, s, "R$ 1.500,00")
	assert.Contains(t, s, "R$ 320,50")
}

func TestRenderCards_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderCards(&out, nil))
	assert.Contains(t, out.String(), "No cards yet")
}

func TestRenderTransactions(t *testing.T) {
	items := []model.Transaction{
		{
			ID: 7, Description: "Lunch", Amount: model.MustAmount("30"),
			Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Direction: model.DirectionOut,
			CategoryName: "Food",
		},
	}
	pager := pagination.NewPager(8).WithCount(20)

	var out bytes.Buffer
	require.NoError(t, RenderTransactions(&out, items, pager))

	s := out.String()
	assert.Contains(t, s, "01/05/2024")
	assert.Contains(t, s, "-R$ 30,00")
	assert.Contains(t, s, "Food")
	assert.Contains(t, s, "[1] 2 3")
}

func TestFormatPager(t *testing.T) {
	tests := []struct {
		name  string
		pager pagination.Pager
		want  string
	}{
		{
			name:  "single page",
			pager: pagination.NewPager(8).WithCount(3),
			want:  "[1] (page 1 of 1, 3 transactions)",
		},
		{
			name:  "middle of many",
			pager: pagination.NewPager(8).WithCount(80).GoTo(6),
			want:  "‹ 4 5 [6] 7 8 › (page 6 of 10, 80 transactions)",
		},
		{
			name:  "last page",
			pager: pagination.NewPager(8).WithCount(80).GoTo(10),
			want:  "‹ 6 7 8 9 [10] (page 10 of 10, 80 transactions)",
		},
		{
			name:  "empty",
			pager: pagination.NewPager(8),
			want:  " (page 1 of 1, 0 transactions)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPager(tt.pager))
		})
	}
}

func TestRenderSpending(t *testing.T) {
	totals := []model.CategoryTotal{
		{Category: "Rent", Total: model.MustAmount("750")},
		{Category: "Food", Total: model.MustAmount("250")},
	}

	var out bytes.Buffer
	require.NoError(t, RenderSpending(&out, totals))

	s := out.String()
	assert.Contains(t, s, " 75.0%")
	assert.Contains(t, s, " 25.0%")
	assert.Contains(t, s, "R$ 1.000,00")
}

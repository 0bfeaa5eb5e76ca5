package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("Catppuccin-Mocha").Primary)
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("").Primary)
	assert.Equal(t, Default.Primary, GetTheme("solarized").Primary)
}

func TestGetCategoryIcon(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Mercado", "🛒"},
		{"  transporte ", "🚗"},
		{"Lazer e Cultura", "🎬"},
		{"Pets", "📦"},
		{"", "📦"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCategoryIcon(tt.category))
		})
	}
}

package cointype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short address unchanged", "0x2::sui::SUI", "0x2::sui::SUI"},
		{"zero padded address stripped", "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI", "0x2::sui::SUI"},
		{"missing prefix restored", "0000000000000000000000000000000000000000000000000000000000000002::sui::SUI", "0x2::sui::SUI"},
		{"address case lowered", "0xAB12::usdc::USDC", "0xab12::usdc::USDC"},
		{"module path case preserved", "0x2::Sui::SUI", "0x2::Sui::SUI"},
		{"all zero address keeps single zero", "0x000::zero::ZERO", "0x0::zero::ZERO"},
		{"whitespace trimmed", "  0x2::sui::SUI ", "0x2::sui::SUI"},
		{"bare address", "0x00AB", "0xab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestSame(t *testing.T) {
	assert.True(t, Same("0x2::sui::SUI", "0x2::sui::SUI"))
	assert.True(t, Same("0x2::sui::SUI", "0x2::SUI::sui"))
	assert.True(t, Same(
		"0x2::sui::SUI",
		"0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI",
	))
	assert.False(t, Same("0x2::sui::SUI", "0x5d4b::coin::COIN"))
	assert.False(t, Same("0x2::sui::SUI", "0x2::sui::USDC"))
}

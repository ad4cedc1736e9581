package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "goldcoast", NormalizeName(" Gold  Coast\n"))
	require.Equal(t, "goldcoast", NormalizeName("GoldCoast"))
	require.Equal(t, "", NormalizeName(" \t"))
}

func TestLetters(t *testing.T) {
	require.Equal(t, "Tyres", Letters("Tyres!!"))
	require.Equal(t, "Servicekm", Letters("Service-15000km"))
	require.Equal(t, "", Letters("123 ..."))
}

func TestFirstWord(t *testing.T) {
	require.Equal(t, "Service,", FirstWord("  Service, overdue"))
	require.Equal(t, "", FirstWord("   "))
}

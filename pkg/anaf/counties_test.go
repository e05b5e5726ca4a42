package anaf_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturis/efactura-pro/pkg/anaf"
)

func TestNormalizeCounty_AliasesAndPrefixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cluj", "RO-CJ"},
		{"CLUJ", "RO-CJ"},
		{"cluj", "RO-CJ"},
		{"Judetul Cluj", "RO-CJ"},
		{"Județul Cluj", "RO-CJ"},
		{"jud. Cluj", "RO-CJ"},
		{"CJ", "RO-CJ"},
		{"  Cluj  ", "RO-CJ"},
		{"Timiș", "RO-TM"},
		{"Timis", "RO-TM"},
		{"Bistrița-Năsăud", "RO-BN"},
		{"BISTRITA NASAUD", "RO-BN"},
		{"Caraș-Severin", "RO-CS"},
		{"Vâlcea", "RO-VL"},
		{"Vîlcea", "RO-VL"}, // pre-1993 spelling
		{"Dâmbovița", "RO-DB"},
		{"Dîmbovița", "RO-DB"},
		{"Satu Mare", "RO-SM"},
		{"Iaşi", "RO-IS"}, // legacy cedilla form
		{"Iași", "RO-IS"}, // comma-below form
		{"Sectorul Agricol Ilfov", "RO-IF"},
		{"Municipiul București", "RO-B"},
		{"Bucharest", "RO-B"},
		{"bucurești", "RO-B"},
	}
	for _, tc := range cases {
		code, ok := anaf.NormalizeCounty(tc.in)
		require.True(t, ok, "expected %q to normalize", tc.in)
		assert.Equal(t, tc.want, code, "input %q", tc.in)
	}
}

func TestNormalizeCounty_Miss(t *testing.T) {
	for _, in := range []string{"", "   ", "Transilvania", "Judetul Nicaieri", "Moldova"} {
		_, ok := anaf.NormalizeCounty(in)
		assert.False(t, ok, "expected %q not to normalize", in)
	}
}

func TestNormalizeCounty_Sectors(t *testing.T) {
	for _, in := range []string{"Sector 1", "Sector 6", "sectorul 3", "SECT. 2", "Sector3", "București, Sector 4"} {
		code, ok := anaf.NormalizeCounty(in)
		require.True(t, ok, "expected %q to normalize", in)
		assert.Equal(t, anaf.CountyCodeBucharest, code,
			"all capital districts collapse to the single RO-B code (input %q)", in)
	}
	_, ok := anaf.NormalizeCounty("Sector 7")
	assert.False(t, ok, "there is no sector 7")
	_, ok = anaf.NormalizeCounty("Sector 0")
	assert.False(t, ok)
}

func TestSectorNumber(t *testing.T) {
	n, ok := anaf.SectorNumber("Sector 3")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = anaf.SectorNumber("sectorul 5, București")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = anaf.SectorNumber("Cluj")
	assert.False(t, ok)
	_, ok = anaf.SectorNumber("Strada Sectei 12")
	assert.False(t, ok, "a street that merely starts with SEC must not match")
}

// TestBucharestChecksAgree pins the contract that the three capital
// detection paths (alias match, sector pattern, normalizer result) never
// disagree, so callers may use whichever is at hand.
func TestBucharestChecksAgree(t *testing.T) {
	inputs := []string{
		"București", "BUCURESTI", "Bucharest", "Municipiul București",
		"Sector 1", "sectorul 6", "SECT. 3",
		"Cluj", "Ilfov", "Timiș", "Transilvania", "",
	}
	for _, in := range inputs {
		t.Run(fmt.Sprintf("input=%q", in), func(t *testing.T) {
			code, ok := anaf.NormalizeCounty(in)
			normalizesToCapital := ok && code == anaf.CountyCodeBucharest
			assert.Equal(t, normalizesToCapital, anaf.IsBucharest(in),
				"IsBucharest must agree with NormalizeCounty")
		})
	}
}

func TestFoldCounty(t *testing.T) {
	assert.Equal(t, "BUCURESTI", anaf.FoldCounty("  București "))
	assert.Equal(t, "BISTRITA NASAUD", anaf.FoldCounty("Bistrița-Năsăud"))
	assert.Equal(t, "JUD CLUJ", anaf.FoldCounty("jud.   Cluj"))
	assert.Equal(t, "", anaf.FoldCounty(" -- "))
}

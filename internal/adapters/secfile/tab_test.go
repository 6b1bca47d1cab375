package secfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-service/internal/domain"
)

const sampleTab = `# Spinward Reach worlds
Hex	Name	UWP	Bases	Remarks	Zone	PBG	Allegiance	Stars
0101	Alpha	A867949-C	NS	Ga Hi	 	801	Im	G2 V
0203	Ruie Landing	C776977-7	S	Hi In	A	300	Na	K0 V M2 V

0910	Farway	E200411-5				400	Na	M1 V
`

func TestParseTab(t *testing.T) {
	worlds, err := ParseTab(strings.NewReader(sampleTab))
	require.NoError(t, err)
	require.Len(t, worlds, 3)

	alpha := worlds[0]
	assert.Equal(t, "0101", alpha.Hex.String())
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, "A867949-C", alpha.UWP.String())
	assert.Equal(t, "NS", alpha.Bases)
	assert.Equal(t, "Ga Hi", alpha.Remarks)
	assert.Equal(t, domain.ZoneGreen, alpha.Zone)
	assert.Equal(t, domain.PBG{PopulationDigit: 8, Belts: 0, GasGiants: 1}, alpha.PBG)
	assert.Equal(t, "Im", alpha.Allegiance)
	assert.Equal(t, "G2 V", alpha.Stellar)

	ruie := worlds[1]
	assert.Equal(t, "Ruie Landing", ruie.Name)
	assert.Equal(t, domain.ZoneAmber, ruie.Zone)
	assert.Equal(t, "K0 V M2 V", ruie.Stellar)

	farway := worlds[2]
	assert.Equal(t, "0910", farway.Hex.String())
	assert.Empty(t, farway.Bases)
}

func TestParseTabWithoutHeader(t *testing.T) {
	worlds, err := ParseTab(strings.NewReader("0101\tAlpha\tA867949-C\n"))
	require.NoError(t, err)
	require.Len(t, worlds, 1)
	assert.Equal(t, "Alpha", worlds[0].Name)
}

func TestParseTabCRLF(t *testing.T) {
	worlds, err := ParseTab(strings.NewReader("0101\tAlpha\tA867949-C\r\n0202\tBeta\tB564500-8\r\n"))
	require.NoError(t, err)
	assert.Len(t, worlds, 2)
}

func TestParseTabErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantSub string
	}{
		{
			name:    "bad hex carries line number",
			in:      "0101\tAlpha\tA867949-C\n9901\tWrong\tB564500-8\n",
			wantSub: "line 2",
		},
		{
			name:    "bad uwp",
			in:      "0101\tAlpha\tZ867949-C\n",
			wantSub: "line 1",
		},
		{
			name:    "duplicate hex names both lines",
			in:      "0101\tAlpha\tA867949-C\n0101\tClone\tB564500-8\n",
			wantSub: "already defined on line 1",
		},
		{
			name:    "empty name",
			in:      "0101\t\tA867949-C\n",
			wantSub: "name must be non-empty",
		},
		{
			name:    "too few columns",
			in:      "0101\tAlpha\n",
			wantSub: "columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTab(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

package referee

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-service/internal/domain"
)

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "referee.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOverlay(t *testing.T) {
	path := writeOverlay(t, `
sector: Spinward Reach
concealed:
  - "0302"
  - "1910"
notes:
  "0101": Ancients site beneath the ice cap.
`)

	o, err := LoadOverlay(path)
	require.NoError(t, err)

	h := func(s string) domain.Hex {
		hex, err := domain.ParseHex(s)
		require.NoError(t, err)
		return hex
	}

	assert.True(t, o.Conceals("Spinward Reach", h("0302")))
	assert.True(t, o.Conceals("spinward reach", h("1910")))
	assert.False(t, o.Conceals("Spinward Reach", h("0101")))
	assert.False(t, o.Conceals("Other Sector", h("0302")))

	assert.Equal(t, "Ancients site beneath the ice cap.", o.Note("Spinward Reach", h("0101")))
	assert.Empty(t, o.Note("Spinward Reach", h("0302")))
	assert.Empty(t, o.Note("Other Sector", h("0101")))
}

func TestLoadOverlayMissingFile(t *testing.T) {
	o, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, o.Conceals("Anywhere", domain.Hex{Col: 1, Row: 1}))

	o, err = LoadOverlay("")
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestLoadOverlayRejectsBadContent(t *testing.T) {
	_, err := LoadOverlay(writeOverlay(t, "concealed: {not: a list}"))
	require.Error(t, err)

	_, err = LoadOverlay(writeOverlay(t, "concealed: [\"9999\"]"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidHex)
}

func TestOverlayFilterWorlds(t *testing.T) {
	path := writeOverlay(t, `
concealed:
  - "0302"
`)
	o, err := LoadOverlay(path)
	require.NoError(t, err)

	worlds := []*domain.World{
		{Hex: domain.Hex{Col: 1, Row: 1}, Name: "Alpha"},
		{Hex: domain.Hex{Col: 3, Row: 2}, Name: "Ghost"},
	}

	visible := o.FilterWorlds("Any Sector", worlds)
	require.Len(t, visible, 1)
	assert.Equal(t, "Alpha", visible[0].Name)

	var none *Overlay
	assert.Len(t, none.FilterWorlds("Any Sector", worlds), 2)
}

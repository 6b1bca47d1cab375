package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-service/internal/domain"
)

func TestJumpNeighbors(t *testing.T) {
	hiddenNear := testWorld(t, "0404", "Quiet", "E433300-4", "300")
	hiddenNear.Hidden = true

	store := testStore(t,
		testWorld(t, "0505", "Core", "A788899-C", "801"),
		testWorld(t, "0504", "Near", "B564500-8", "701"),
		hiddenNear,
		testWorld(t, "0305", "Westin", "C544338-7", "601"),
		testWorld(t, "0705", "Easton", "D431257-6", "501"),
		testWorld(t, "0508", "Southby", "E200411-5", "400"),
	)

	out, err := JumpNeighbors(context.Background(), JumpMapRequest{
		Sector: "Spinward Reach",
		Center: mustHex(t, "0505"),
		Range:  2,
	}, store)
	require.NoError(t, err)

	var got []string
	for _, rw := range out {
		got = append(got, rw.World.Hex.String())
	}
	assert.Equal(t, []string{"0505", "0504", "0305", "0705"}, got)
	assert.Equal(t, 0, out[0].Parsecs)
	assert.Equal(t, 1, out[1].Parsecs)
	assert.Equal(t, 2, out[2].Parsecs)

	// Referee view adds the concealed neighbor in hex order at distance 1.
	out, err = JumpNeighbors(context.Background(), JumpMapRequest{
		Sector:        "Spinward Reach",
		Center:        mustHex(t, "0505"),
		Range:         2,
		IncludeHidden: true,
	}, store)
	require.NoError(t, err)

	got = got[:0]
	for _, rw := range out {
		got = append(got, rw.World.Hex.String())
	}
	assert.Equal(t, []string{"0505", "0404", "0504", "0305", "0705"}, got)
}

func TestJumpNeighborsEmptyCenter(t *testing.T) {
	store := testStore(t,
		testWorld(t, "0505", "Core", "A788899-C", "801"),
		testWorld(t, "0504", "Near", "B564500-8", "701"),
	)

	// The cursor can sit on an empty hex; the ring still resolves.
	out, err := JumpNeighbors(context.Background(), JumpMapRequest{
		Sector: "Spin",
		Center: mustHex(t, "0506"),
		Range:  1,
	}, store)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "0505", out[0].World.Hex.String())
	assert.Equal(t, 1, out[0].Parsecs)
}

func TestJumpNeighborsValidation(t *testing.T) {
	store := testStore(t, testWorld(t, "0505", "Core", "A788899-C", "801"))

	for _, rng := range []int{0, 7} {
		_, err := JumpNeighbors(context.Background(), JumpMapRequest{
			Sector: "Spinward Reach",
			Center: mustHex(t, "0505"),
			Range:  rng,
		}, store)
		require.Error(t, err, "range %d", rng)
	}

	_, err := JumpNeighbors(context.Background(), JumpMapRequest{
		Sector: "Spinward Reach",
		Center: domain.Hex{Col: 40, Row: 50},
		Range:  2,
	}, store)
	assert.ErrorIs(t, err, domain.ErrInvalidHex)

	_, err = JumpNeighbors(context.Background(), JumpMapRequest{
		Sector: "Elsewhere",
		Center: mustHex(t, "0505"),
		Range:  2,
	}, store)
	assert.True(t, errors.Is(err, domain.ErrSectorNotFound))
}

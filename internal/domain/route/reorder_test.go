package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wp builds a waypoint on the equator at the given longitude offset, so
// distances grow linearly with the offset.
func wp(lng float64, title string) Waypoint {
	return Waypoint{Lat: 0, Lng: lng, Title: title}
}

func TestGreedyReorder_SortsInteriorByDistanceFromStart(t *testing.T) {
	in := []Waypoint{
		wp(0, "start"),
		wp(3, "far"),
		wp(1, "near"),
		wp(2, "mid"),
		wp(10, "end"),
	}

	out := GreedyReorder(in)

	titles := make([]string, len(out))
	for i, w := range out {
		titles[i] = w.Title
	}
	assert.Equal(t, []string{"start", "near", "mid", "far", "end"}, titles)
}

func TestGreedyReorder_FirstAndLastStayFixed(t *testing.T) {
	in := []Waypoint{wp(5, "start"), wp(1, "a"), wp(9, "b"), wp(0, "end")}

	out := GreedyReorder(in)

	assert.Equal(t, "start", out[0].Title)
	assert.Equal(t, "end", out[len(out)-1].Title)
}

func TestGreedyReorder_BelowBandUnchanged(t *testing.T) {
	in := []Waypoint{wp(0, "a"), wp(2, "b"), wp(1, "c")}

	out := GreedyReorder(in)

	assert.Equal(t, in, out)
}

func TestGreedyReorder_AboveBandUnchanged(t *testing.T) {
	in := make([]Waypoint, 9)
	for i := range in {
		in[i] = wp(float64(9-i), "")
	}

	out := GreedyReorder(in)

	assert.Equal(t, in, out)
}

func TestGreedyReorder_LargeSetUnchanged(t *testing.T) {
	in := make([]Waypoint, 13)
	for i := range in {
		in[i] = wp(float64(13-i), "")
	}

	out := GreedyReorder(in)

	assert.Equal(t, in, out)
}

func TestGreedyReorder_DoesNotMutateInput(t *testing.T) {
	in := []Waypoint{wp(0, "start"), wp(3, "far"), wp(1, "near"), wp(10, "end")}
	original := make([]Waypoint, len(in))
	copy(original, in)

	_ = GreedyReorder(in)

	assert.Equal(t, original, in)
}

func TestGreedyReorder_Deterministic(t *testing.T) {
	in := []Waypoint{wp(0, "start"), wp(2, "a"), wp(2, "b"), wp(1, "c"), wp(5, "end")}

	first := GreedyReorder(in)
	second := GreedyReorder(in)

	assert.Equal(t, first, second)
}

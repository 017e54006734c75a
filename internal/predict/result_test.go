package predict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.87, 87},
		{0.42, 42},
		{1, 100},
		{0, 0},
		{0.996, 100},
		{0.124, 12},
		{0.8749, 87},
		{1.5, 150},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Percent(c.in), "Percent(%v)", c.in)
	}
}

func TestNormalize(t *testing.T) {
	require.InDelta(t, 0.87, Normalize(87), 1e-9)
	require.InDelta(t, 0.42, Normalize(0.42), 1e-9)
	require.InDelta(t, 1.0, Normalize(1), 1e-9)
}

func TestDecodeNormalizesOnce(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`{"label":"real","confidence":87}`, 87},
		{`{"label":"real","confidence":0.42}`, 42},
		{`{"label":"fake","confidence":150}`, 150},
		{`{"label":"fake","confidence":1}`, 100},
	}
	for _, c := range cases {
		res, err := Decode([]byte(c.body))
		require.NoError(t, err)
		require.Equal(t, c.want, res.Percent(), c.body)
	}

	res, err := Decode([]byte(`{"label":"fake","confidence":150}`))
	require.NoError(t, err)
	require.InDelta(t, 1.5, res.Confidence, 1e-9)
}

func TestAccentFor(t *testing.T) {
	require.Equal(t, AccentWarning, AccentFor("AI-generated"))
	require.Equal(t, AccentWarning, AccentFor("ai"))
	require.Equal(t, AccentWarning, AccentFor("Likely Ai"))
	require.Equal(t, AccentNeutral, AccentFor("Human"))
	require.Equal(t, AccentNeutral, AccentFor("real"))
	require.Equal(t, "warning", AccentWarning.String())
	require.Equal(t, "neutral", AccentNeutral.String())
}

func TestDecodeDefaults(t *testing.T) {
	res, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, UnknownLabel, res.Label)
	require.Zero(t, res.Confidence)
	require.Empty(t, res.Explanation)

	res, err = Decode([]byte(`{"label":null,"confidence":null}`))
	require.NoError(t, err)
	require.Equal(t, UnknownLabel, res.Label)
	require.Zero(t, res.Confidence)
}

func TestDecodeLooseTypes(t *testing.T) {
	res, err := Decode([]byte(`{"label":7,"confidence":"93.5","message":"Prediction stored successfully"}`))
	require.NoError(t, err)
	require.Equal(t, "7", res.Label)
	require.InDelta(t, 0.935, res.Confidence, 1e-9)
	require.Equal(t, 94, res.Percent())
	require.Equal(t, "Prediction stored successfully", res.Message)

	res, err = Decode([]byte(`{"label":"fake","confidence":"n/a"}`))
	require.NoError(t, err)
	require.Zero(t, res.Confidence)
}

func TestDecodeFalsyLabelIsUnknown(t *testing.T) {
	cases := map[string]string{
		`{"label":false}`: UnknownLabel,
		`{"label":0}`:     UnknownLabel,
		`{"label":""}`:    UnknownLabel,
		`{"label":true}`:  "true",
		`{"label":0.5}`:   "0.5",
	}
	for body, want := range cases {
		res, err := Decode([]byte(body))
		require.NoError(t, err)
		require.Equal(t, want, res.Label, body)
	}
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	require.Error(t, err)
	_, err = Decode([]byte(`["label"]`))
	require.Error(t, err)
}

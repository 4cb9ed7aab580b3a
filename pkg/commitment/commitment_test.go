package commitment_test

import (
	"strings"
	"testing"
	"time"

	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/navikt/synthproof/pkg/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingDigest(t *testing.T) {
	t.Parallel()

	d := commitment.Rolling{}

	testCases := []struct {
		name   string
		input  string
		width  int
		expect string
	}{
		{name: "empty", input: "", width: 8, expect: "00000000"},
		{name: "single char", input: "a", width: 8, expect: "00000061"},
		{name: "two chars", input: "ab", width: 8, expect: "00000c21"},
		{name: "truncated", input: "ab", width: 2, expect: "c2"},
		{name: "no width", input: "ab", width: 0, expect: "c21"},
		{name: "hello", input: "hello", width: 8, expect: "05e918d2"},
		// wraps to math.MinInt32, whose absolute value does not fit in an int32
		{name: "min int32", input: "polygenelubricants", width: 0, expect: "80000000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, d.Digest(tc.input, tc.width))
		})
	}
}

func TestDigestersHaveFixedWidth(t *testing.T) {
	for _, name := range []string{commitment.DigestRolling, commitment.DigestSHA256, commitment.DigestMiMC} {
		t.Run(name, func(t *testing.T) {
			d, err := commitment.DigesterByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, d.Name())

			for _, width := range []int{commitment.CommitmentWidth, commitment.ProofWidth} {
				got := d.Digest("some input", width)
				assert.Len(t, got, width)
				assert.Equal(t, got, d.Digest("some input", width))
				assert.Equal(t, strings.ToLower(got), got)
			}

			assert.NotEqual(t, d.Digest("some input", 32), d.Digest("other input", 32))
		})
	}

	_, err := commitment.DigesterByName("md5")
	assert.Error(t, err)
}

func TestCommitmentPurity(t *testing.T) {
	e := commitment.New()

	first := e.DatasetCommitment("3f9a1c")
	assert.Equal(t, first, e.DatasetCommitment("3f9a1c"))
	assert.True(t, strings.HasPrefix(first, "aleo1dataset"))
	assert.Len(t, first, len("aleo1dataset")+commitment.CommitmentWidth)

	params := e.ParamsHash(100, "balanced", "csv")
	assert.Equal(t, params, e.ParamsHash(100, "balanced", "csv"))
	assert.True(t, strings.HasPrefix(params, "aleo1commitment"))
	assert.NotEqual(t, params, e.ParamsHash(100, "high", "csv"))
}

func TestSynthCommitmentIgnoresMapOrder(t *testing.T) {
	e := commitment.New(commitment.WithNamespace("test"))

	a := synth.Table{"age": {synth.Text("40-50")}, "country": {synth.Text("USA")}}
	b := synth.Table{"country": {synth.Text("USA")}, "age": {synth.Text("40-50")}}

	ca, err := e.SynthCommitment(a)
	require.NoError(t, err)
	cb, err := e.SynthCommitment(b)
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.True(t, strings.HasPrefix(ca, "test1commitment"))

	changed := synth.Table{"age": {synth.Text("50-60")}, "country": {synth.Text("USA")}}
	cc, err := e.SynthCommitment(changed)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cc)
}

func TestProofHashIsTimeSalted(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	clock := func() time.Time { return now }

	e := commitment.New(commitment.WithClock(clock))

	first, at := e.ProofHash("aleo1commitmentabc", "aleo1commitmentdef")
	assert.Equal(t, now, at)
	assert.True(t, strings.HasPrefix(first, "proof1"))
	assert.Len(t, first, len("proof1")+commitment.ProofWidth)

	again, _ := e.ProofHash("aleo1commitmentabc", "aleo1commitmentdef")
	assert.Equal(t, first, again, "same instant, same hash")

	now = now.Add(time.Millisecond)
	later, _ := e.ProofHash("aleo1commitmentabc", "aleo1commitmentdef")
	assert.NotEqual(t, first, later, "proof hashes are salted with the generation time")

	assert.Equal(t, later, e.ProofHashAt("aleo1commitmentabc", "aleo1commitmentdef", now))
}

func TestSwappableDigester(t *testing.T) {
	rolling := commitment.New()
	sha := commitment.New(commitment.WithDigester(commitment.SHA256{}))

	assert.NotEqual(t, rolling.DatasetCommitment("abc"), sha.DatasetCommitment("abc"))
	assert.Equal(t, "sha256", sha.Digester().Name())
	assert.Equal(t,
		"aleo1dataset"+"ba7816bf8f01cfea414140de5dae2223",
		sha.DatasetCommitment("abc"),
	)
}

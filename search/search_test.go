package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/mhr3/filescan/ascii"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchReference is a naive linear scanner used as the oracle for both
// algorithms.
func searchReference(data []byte, pattern string, matchCase bool) []Span {
	var spans []Span
	m := len(pattern)
	for i := 0; i+m <= len(data); i++ {
		window := data[i : i+m]
		if matchCase && string(window) == pattern || !matchCase && ascii.EqualFold(string(window), pattern) {
			spans = append(spans, Span{Offset: i, Length: m})
		}
	}
	return spans
}

// algorithmsFor returns every algorithm able to handle pattern.
func algorithmsFor(pattern string, opts Options) map[string]Algorithm {
	cfg := config{checkInterval: DefaultCheckInterval}
	algos := map[string]Algorithm{
		"shift_table": newShiftTable(pattern, opts, cfg),
	}
	if len(pattern) <= MaxBitParallelLength {
		algos["bit_parallel"] = newBitParallel(pattern, opts, cfg)
	}
	return algos
}

func randomBuffer(rng *rand.Rand, n int, alphabet string) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return data
}

func flipCase(rng *rand.Rand, s string) string {
	b := []byte(s)
	for i, c := range b {
		if rng.Intn(2) == 0 {
			_, b[i] = ascii.Fold(c)
		} else {
			b[i] = ascii.ToLower(c)
		}
	}
	return string(b)
}

func TestNewSelectsAlgorithmByLength(t *testing.T) {
	tests := []struct {
		length int
		want   string
	}{
		{1, "*search.BitParallel"},
		{32, "*search.BitParallel"},
		{MaxBitParallelLength, "*search.BitParallel"},
		{MaxBitParallelLength + 1, "*search.ShiftTable"},
		{500, "*search.ShiftTable"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("len_%d", tt.length), func(t *testing.T) {
			algo, err := New(strings.Repeat("x", tt.length), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fmt.Sprintf("%T", algo))
			assert.Equal(t, tt.length, algo.Len())
		})
	}
}

func TestNewRejectsEmptyPattern(t *testing.T) {
	algo, err := New("", Options{MatchCase: true})
	require.Error(t, err)
	assert.Nil(t, algo)
	assert.ErrorIs(t, err, ErrEmptyPattern)

	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "", perr.Pattern)
}

func TestSearchAllBasic(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		pattern   string
		matchCase bool
		want      []int
	}{
		{"single", "hello world", "world", true, []int{6}},
		{"none", "hello world", "xyz", true, nil},
		{"case_mismatch", "Hello World", "world", true, nil},
		{"fold", "Hello World", "WORLD", false, []int{6}},
		{"fold_mixed", "aBc abc ABC", "abc", false, []int{0, 4, 8}},
		{"overlap_pair", "aaa", "aa", true, []int{0, 1}},
		{"overlap_four", "aaaa", "aa", true, []int{0, 1, 2}},
		{"periodic", "abababab", "abab", true, []int{0, 2, 4}},
		{"start_and_end", "abxxab", "ab", true, []int{0, 4}},
		{"whole_buffer", "abc", "abc", true, []int{0}},
		{"longer_than_buffer", "ab", "abc", true, nil},
		{"empty_buffer", "", "a", false, nil},
		{"newline", "a\nb\n", "\n", true, []int{1, 3}},
		{"non_letter_fold", "1+1=2", "+1=", false, []int{1}},
		{"high_bytes", "\xff\xfe\xff\xfe", "\xff\xfe", false, []int{0, 2}},
	}

	for _, tt := range tests {
		for name, algo := range algorithmsFor(tt.pattern, Options{MatchCase: tt.matchCase}) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				spans, err := algo.SearchAll(context.Background(), []byte(tt.data))
				require.NoError(t, err)

				var got []int
				for _, s := range spans {
					assert.Equal(t, len(tt.pattern), s.Length)
					got = append(got, s.Offset)
				}
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestSearchAllMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabets := []string{"ab", "abAB", "abc \n", "abcdefghijklmnopqrstuvwxyz"}
	lengths := []int{1, 2, 3, 7, 8, 31, 63, 64, 65, 66, 100, 200}

	for _, alphabet := range alphabets {
		for _, m := range lengths {
			for _, matchCase := range []bool{true, false} {
				name := fmt.Sprintf("%q/len_%d/case_%v", alphabet, m, matchCase)
				t.Run(name, func(t *testing.T) {
					for iter := 0; iter < 20; iter++ {
						data := randomBuffer(rng, m+rng.Intn(600), alphabet)

						// Half of the patterns are taken from the buffer so that
						// matches are guaranteed.
						var pattern string
						if iter%2 == 0 {
							start := rng.Intn(len(data) - m + 1)
							pattern = string(data[start : start+m])
							if !matchCase {
								pattern = flipCase(rng, pattern)
							}
						} else {
							pattern = string(randomBuffer(rng, m, alphabet))
						}

						want := searchReference(data, pattern, matchCase)
						for algoName, algo := range algorithmsFor(pattern, Options{MatchCase: matchCase}) {
							got, err := algo.SearchAll(context.Background(), data)
							require.NoError(t, err)
							if !assert.Equal(t, want, got, "%s pattern=%q", algoName, pattern) {
								return
							}
						}
					}
				})
			}
		}
	}
}

func TestSearchAllPatternEqualsBuffer(t *testing.T) {
	for _, m := range []int{1, 64, 65, 300} {
		data := bytes.Repeat([]byte("q"), m)
		for name, algo := range algorithmsFor(string(data), Options{MatchCase: true}) {
			t.Run(fmt.Sprintf("%s/%d", name, m), func(t *testing.T) {
				spans, err := algo.SearchAll(context.Background(), data)
				require.NoError(t, err)
				assert.Equal(t, []Span{{Offset: 0, Length: m}}, spans)

				data2 := append(bytes.Repeat([]byte("q"), m-1), 'z')
				spans, err = algo.SearchAll(context.Background(), data2)
				require.NoError(t, err)
				assert.Empty(t, spans)
			})
		}
	}
}

func TestSearchAllIdempotent(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))
	for _, pattern := range []string{"the", "THE LAZY", strings.Repeat("o", 70)} {
		algo, err := New(pattern, Options{})
		require.NoError(t, err)

		first, err := algo.SearchAll(context.Background(), data)
		require.NoError(t, err)
		second, err := algo.SearchAll(context.Background(), data)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestSearchAllCanceled(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 1<<16)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, pattern := range []string{"defgh", strings.Repeat("abcdefgh", 10)} {
		algo, err := New(pattern, Options{MatchCase: true}, WithCheckInterval(4096))
		require.NoError(t, err)

		spans, err := algo.SearchAll(ctx, data)
		assert.Nil(t, spans)
		assert.ErrorIs(t, err, ErrCanceled)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestSearchAllCanceledBetweenScans(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 1<<18)
	ctx, cancel := context.WithCancel(context.Background())

	algo, err := New("aa", Options{MatchCase: true}, WithCheckInterval(1024))
	require.NoError(t, err)

	// Not canceled yet: a full scan succeeds.
	spans, err := algo.SearchAll(ctx, data)
	require.NoError(t, err)
	assert.Len(t, spans, len(data)-1)

	cancel()
	spans, err = algo.SearchAll(ctx, data)
	assert.Nil(t, spans)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestSpan(t *testing.T) {
	s := Span{Offset: 3, Length: 4}
	assert.Equal(t, 7, s.End())
	assert.True(t, s.Within(7))
	assert.False(t, s.Within(6))
	assert.False(t, Span{Offset: -1, Length: 1}.Within(10))
	assert.Equal(t, "[3,7)", s.String())
}

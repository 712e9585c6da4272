package analysis

import (
	"slices"
	"sort"

	"github.com/SeamusWaldron/cubie"
)

// NGram is a move sequence that occurs more than once.
type NGram struct {
	N           int               `json:"n"`
	Sequence    string            `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence is where an n-gram was found.
type NGramOccurrence struct {
	StartIndex int   `json:"start_index"`
	TsMs       int64 `json:"ts_ms"`
}

const maxOccurrences = 10

// token packs a move into 0..17: three turns per face.
func token(m cubie.Move) uint8 {
	return uint8(int(m.Face)*3 + m.Turn.Quarters() - 1)
}

// rollingHash is a Rabin-Karp hash over a fixed-size token window.
type rollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1)
	window []uint8
	n      int
}

func newRollingHash(n int) *rollingHash {
	rh := &rollingHash{base: 31, n: n, pow: 1, window: make([]uint8, 0, n)}
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// roll adds a token, dropping the oldest once the window is full.
func (rh *rollingHash) roll(t uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, t)
		rh.hash = rh.hash*rh.base + uint64(t)
		return
	}
	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(t)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = t
}

func (rh *rollingHash) ready() bool {
	return len(rh.window) == rh.n
}

type ngramEntry struct {
	tokens      []uint8
	start       int
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the topK most frequent repeated sequences for each length
// in [minN, maxN]. Lengths with no repeats are omitted.
func MineNGrams(moves []TimedMove, minN, maxN, topK int) map[int][]NGram {
	report := make(map[int][]NGram)
	tokens := make([]uint8, len(moves))
	for i, m := range moves {
		tokens[i] = token(m.Move)
	}

	for n := max(minN, 1); n <= maxN && n <= len(moves); n++ {
		if ngrams := mineN(tokens, moves, n, topK); len(ngrams) > 0 {
			report[n] = ngrams
		}
	}
	return report
}

func mineN(tokens []uint8, moves []TimedMove, n, topK int) []NGram {
	// Collisions chain within a bucket.
	buckets := make(map[uint64][]*ngramEntry)
	var entries []*ngramEntry
	rh := newRollingHash(n)

	for i, t := range tokens {
		rh.roll(t)
		if !rh.ready() {
			continue
		}
		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: moves[start].TsMs}

		var entry *ngramEntry
		for _, e := range buckets[rh.hash] {
			if slices.Equal(e.tokens, rh.window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: slices.Clone(rh.window), start: start}
			buckets[rh.hash] = append(buckets[rh.hash], entry)
			entries = append(entries, entry)
		}
		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	repeated := entries[:0]
	for _, e := range entries {
		if e.count >= 2 {
			repeated = append(repeated, e)
		}
	}
	// Stable on first occurrence so equal counts keep sequence order.
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].count > repeated[j].count
	})
	if len(repeated) > topK {
		repeated = repeated[:topK]
	}

	result := make([]NGram, len(repeated))
	for i, e := range repeated {
		seq := make([]cubie.Move, n)
		for j := range seq {
			seq[j] = moves[e.start+j].Move
		}
		result[i] = NGram{
			N:           n,
			Sequence:    cubie.FormatMoves(seq),
			Count:       e.count,
			Occurrences: e.occurrences,
		}
	}
	return result
}

package memory

import "sort"

// rrfK dampens the influence of top ranks in reciprocal rank fusion.
const rrfK = 60

type fusedEntry struct {
	id    string
	score float64
	lists int // how many input lists the id appeared in
	order int // first-seen position across lists, for deterministic ties
}

// fuseRanked merges ranked id lists with Reciprocal Rank Fusion: each id
// scores the sum of 1/(rank+k) over the lists it appears in, ranks 1-based.
// Ties break by list-membership count, then by first-seen order, so the
// result is reproducible for identical inputs.
func fuseRanked(lists ...[]string) []fusedEntry {
	entries := make(map[string]*fusedEntry)
	seen := 0

	for _, list := range lists {
		for rank, id := range list {
			e, ok := entries[id]
			if !ok {
				e = &fusedEntry{id: id, order: seen}
				entries[id] = e
				seen++
			}
			e.score += 1.0 / float64(rank+1+rrfK)
			e.lists++
		}
	}

	fused := make([]fusedEntry, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, *e)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		if fused[i].lists != fused[j].lists {
			return fused[i].lists > fused[j].lists
		}
		return fused[i].order < fused[j].order
	})
	return fused
}

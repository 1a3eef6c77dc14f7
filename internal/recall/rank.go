package recall

import "sort"

// RankFacts orders facts by importance descending, ties broken by most
// recent timestamp, and truncates to limit. The sort is stable so facts
// that tie on both keys keep their input order. The input is not mutated.
func RankFacts(facts []Fact, limit int) []Fact {
	if limit <= 0 || len(facts) == 0 {
		return nil
	}

	ranked := make([]Fact, len(facts))
	copy(ranked, facts)

	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := ranked[i].Importance.Weight(), ranked[j].Importance.Weight()
		if wi != wj {
			return wi > wj
		}
		return ranked[i].Timestamp.After(ranked[j].Timestamp)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

package proofs

import (
	"math"

	"github.com/rony4d/witgen/inter/claim"
)

// SourceStats counts the proofs issued for one source.
type SourceStats struct {
	Identities int
	Wits       uint64 // nanowits

	// Percentages, rounded to two decimals.
	OverTotalSupply      float64
	OverGenesis          float64
	OverNotForFoundation float64
	OverUnlocked         float64
}

// Stats summarises an issuance run.
type Stats struct {
	Total    SourceStats
	BySource map[claim.Source]*SourceStats

	// NotForFoundation is the total assigned before the foundation remainder.
	NotForFoundation uint64
	// Unlocked is NotForFoundation minus the founder and stakeholder allocations.
	Unlocked uint64
}

// NewStats returns empty statistics with an entry per known source.
func NewStats() *Stats {
	s := &Stats{BySource: make(map[claim.Source]*SourceStats)}
	for _, source := range claim.Sources {
		s.BySource[source] = &SourceStats{}
	}
	return s
}

func (s *Stats) add(source claim.Source, nanowits uint64) {
	s.Total.Identities++
	s.Total.Wits += nanowits
	ss, ok := s.BySource[source]
	if !ok {
		ss = &SourceStats{}
		s.BySource[source] = ss
	}
	ss.Identities++
	ss.Wits += nanowits
}

// seal freezes the totals that exclude the foundation remainder.
func (s *Stats) seal() {
	s.NotForFoundation = s.Total.Wits
	s.Unlocked = s.Total.Wits - s.BySource[claim.SourceFounder].Wits - s.BySource[claim.SourceStakeholder].Wits
}

func percentage(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}

func (s *Stats) computePercentages(supply uint64) {
	fill := func(ss *SourceStats) {
		ss.OverTotalSupply = percentage(ss.Wits, supply)
		ss.OverGenesis = percentage(ss.Wits, s.Total.Wits)
		ss.OverNotForFoundation = percentage(ss.Wits, s.NotForFoundation)
		ss.OverUnlocked = percentage(ss.Wits, s.Unlocked)
	}
	fill(&s.Total)
	for _, ss := range s.BySource {
		fill(ss)
	}
}

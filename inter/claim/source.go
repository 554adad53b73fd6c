// Package claim defines the documents exchanged during the genesis claiming
// process: node ownership claims from the testnet incentive program,
// participant proofs issued by the foundation and the signed claim files
// participants send back to receive their allocation.
package claim

import (
	"path/filepath"
	"strings"
)

// Source identifies the program a participant allocation comes from.
type Source string

const (
	// SourceDPA is Debt Payable by Assets (private sale).
	SourceDPA Source = "dpa"
	// SourceFoundation is the foundation's own remainder.
	SourceFoundation Source = "foundation"
	// SourceFounder covers founder allocations.
	SourceFounder Source = "founder"
	// SourcePPA is the Pre-Purchase Agreement (second private sale).
	SourcePPA Source = "ppa"
	// SourceSAFT is the Simple Agreement for Future Tokens (first private sale).
	SourceSAFT Source = "saft"
	// SourceStakeholder covers stakeholder allocations.
	SourceStakeholder Source = "stakeholder"
	// SourceTIP is the Testnet Incentives Program.
	SourceTIP Source = "tip"
)

// Sources lists every known source in a stable order.
var Sources = []Source{
	SourceDPA, SourceFoundation, SourceFounder, SourcePPA, SourceSAFT, SourceStakeholder, SourceTIP,
}

// Known reports whether s is one of Sources.
func (s Source) Known() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// PrivateSale reports whether allocations of this source are bought with USD.
func (s Source) PrivateSale() bool {
	return s == SourceDPA || s == SourceSAFT || s == SourcePPA
}

// SourceFromFileName extracts the source encoded in a proof file name: the
// part of the base name before the first underscore.
func SourceFromFileName(path string) Source {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '_'); i >= 0 {
		return Source(base[:i])
	}
	return Source(strings.TrimSuffix(base, filepath.Ext(base)))
}

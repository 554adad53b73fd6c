// Package ledger keeps the permanent audit trail of the node claim pipeline.
// This file (stage.go) enumerates the funnel stages a participant goes
// through, in pipeline order, and which kinds of keys each stage tracks:
// 1. Participant identifiers (WIT_xxxxx), tracked by every stage.
// 2. Claimed addresses, tracked once a claim has a valid schema.
// 3. Emails, tracked where the input carries them (sign-up CSV and KYC).
package ledger

// Stage is one step of the node claim funnel.
type Stage int

const (
	// FromCSV holds participants listed in the nodes sign-up CSV.
	FromCSV Stage = iota
	// Downloaded holds participants whose claim file could be fetched.
	Downloaded
	// Decompressed holds participants whose claim file was found unpacked on disk.
	Decompressed
	// Parsed holds participants whose claim file is valid JSON.
	Parsed
	// Schema holds participants whose claim has the expected shape.
	Schema
	// Signature holds participants whose claim is signed by the claimed key.
	Signature
	// Address holds participants whose claimed address derives from the key
	// and was not taken by somebody else.
	Address
	// KYC holds participants who passed the KYC whitelist.
	KYC

	stageCount
)

var stageNames = [stageCount]string{
	FromCSV:      "node_claims_from_csv",
	Downloaded:   "downloaded_node_claim_files",
	Decompressed: "decompressed_node_claim_files",
	Parsed:       "parsed_node_claim_files",
	Schema:       "valid_schema_node_claim_files",
	Signature:    "valid_signature_in_node_claim_file",
	Address:      "valid_address_in_node_claim_file",
	KYC:          "passed_kyc",
}

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	stages := make([]Stage, stageCount)
	for i := range stages {
		stages[i] = Stage(i)
	}
	return stages
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s >= FromCSV && s < stageCount
}

func (s Stage) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stageNames[s]
}

// TracksAddresses reports whether the stage records claimed addresses.
func (s Stage) TracksAddresses() bool {
	return s == Schema || s == Signature || s == Address
}

// TracksEmails reports whether the stage records participant emails.
func (s Stage) TracksEmails() bool {
	return s == FromCSV || s == Downloaded || s == KYC
}

// RewardSource tells apart the independent ways a participant earns tokens.
type RewardSource int

const (
	// Mining rewards are proportional to blocks mined during the incentive program.
	Mining RewardSource = iota
	// Direct rewards are assigned by hand for other contributions.
	Direct
	// PrivateSale rewards come from USD contributions.
	PrivateSale

	rewardSourceCount
)

func (r RewardSource) String() string {
	switch r {
	case Mining:
		return "mining"
	case Direct:
		return "direct"
	case PrivateSale:
		return "private_sale"
	}
	return "unknown"
}

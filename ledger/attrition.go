package ledger

// StageAttrition summarises one stage of the funnel. MissingIDs and
// MissingAddresses hold the keys that reached the previous stage tracking the
// same kind of key but not this one, so that MissingIDs == reached[n-1] -
// reached[n]. MissingEmails is always measured against the sign-up list.
type StageAttrition struct {
	Stage Stage

	IDs       int
	Addresses int
	Emails    int

	MissingIDs       []string
	MissingAddresses []string
	MissingEmails    []string
}

// Attrition is the funnel, one entry per stage in pipeline order.
type Attrition []StageAttrition

// Of returns the summary of a single stage.
func (a Attrition) Of(stage Stage) StageAttrition {
	return a[stage]
}

// ComputeAttrition derives the per-stage missing sets from the recorded
// memberships. It does not modify the ledger, so it can be called at any
// point, usually once at the end of a full pipeline pass.
func (l *Ledger) ComputeAttrition() Attrition {
	out := make(Attrition, stageCount)
	prevAddr := Stage(-1)
	for _, stage := range Stages() {
		sa := StageAttrition{
			Stage:     stage,
			IDs:       len(l.ids[stage]),
			Addresses: len(l.addresses[stage]),
			Emails:    len(l.emails[stage]),
		}
		if stage > FromCSV {
			sa.MissingIDs = l.ids[stage-1].minus(l.ids[stage])
		}
		if stage.TracksAddresses() {
			if prevAddr >= 0 {
				sa.MissingAddresses = l.addresses[prevAddr].minus(l.addresses[stage])
			}
			prevAddr = stage
		}
		if stage.TracksEmails() && stage > FromCSV {
			sa.MissingEmails = l.emails[FromCSV].minus(l.emails[stage])
		}
		out[stage] = sa
	}
	return out
}

package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/witgen/genesis"
)

// Report is the outcome of a reconciliation run. Email lists are sorted.
type Report struct {
	// Claims counts the claim files that could be parsed.
	Claims       int
	Good         []string
	Bad          map[string]Reason
	Multiple     []string
	Unexpected   []string
	NotSubmitted []string
	// Malformed and MalformedProofs list skipped files.
	Malformed       []string
	MalformedProofs []string

	Buckets       int
	TotalEmitted  uint64
	TotalEntitled uint64
	Unclaimed     uint64
}

// BadEmails returns the emails with a bad claim, sorted.
func (r *Report) BadEmails() []string {
	out := make([]string, 0, len(r.Bad))
	for email := range r.Bad {
		out = append(out, email)
	}
	sort.Strings(out)
	return out
}

// Fields returns the counters of the report for logging.
func (r *Report) Fields() logrus.Fields {
	return logrus.Fields{
		"claims":        r.Claims,
		"good":          len(r.Good),
		"bad":           len(r.Bad),
		"multiple":      len(r.Multiple),
		"unexpected":    len(r.Unexpected),
		"not_submitted": len(r.NotSubmitted),
		"malformed":     len(r.Malformed),
		"buckets":       r.Buckets,
		"emitted":       r.TotalEmitted,
		"entitled":      r.TotalEntitled,
	}
}

func wits(nanowits uint64) string {
	return fmt.Sprintf("%d.%09d", nanowits/genesis.NanowitsPerWit, nanowits%genesis.NanowitsPerWit)
}

// Summary renders the report for humans.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claims processed: %d\n", r.Claims)
	list := func(title string, emails []string) {
		fmt.Fprintf(&b, "%s: %d\n", title, len(emails))
		for _, e := range emails {
			fmt.Fprintf(&b, "\t%s\n", e)
		}
	}
	list("Good", r.Good)
	fmt.Fprintf(&b, "Bad: %d\n", len(r.Bad))
	for _, e := range r.BadEmails() {
		fmt.Fprintf(&b, "\t%s (%s)\n", e, r.Bad[e])
	}
	list("Multiple", r.Multiple)
	list("Unexpected", r.Unexpected)
	list("Not submitted", r.NotSubmitted)
	list("Malformed claim files", r.Malformed)
	if len(r.MalformedProofs) > 0 {
		list("Malformed proof files", r.MalformedProofs)
	}
	fmt.Fprintf(&b, "Timelocks: %d\n", r.Buckets)
	fmt.Fprintf(&b, "Entitled: %s wit\n", wits(r.TotalEntitled))
	fmt.Fprintf(&b, "Emitted: %s wit\n", wits(r.TotalEmitted))
	fmt.Fprintf(&b, "Unclaimed (of genesis allocation): %s wit\n", wits(r.Unclaimed))
	return b.String()
}

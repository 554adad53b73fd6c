package claim

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// AssignmentHeader is the header row of assignment CSV files.
var AssignmentHeader = []string{"email_address", "name", "usd", "nanowit", "source", "secret"}

// SecretLength is the length of the random secret that makes proof file
// names unguessable.
const SecretLength = 32

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Assignment is one row of an assignment CSV: how much a participant is
// owed, either in USD (private sales) or directly in nanowits.
type Assignment struct {
	EmailAddress string
	Name         string
	USD          uint64
	Nanowit      uint64
	Source       Source
	Secret       string
}

// NewSecret returns a random alphanumeric secret of SecretLength characters.
func NewSecret() string {
	b := make([]byte, SecretLength)
	for i := range b {
		b[i] = secretAlphabet[frand.Intn(len(secretAlphabet))]
	}
	return string(b)
}

func formatOptional(v uint64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(v, 10)
}

func parseOptional(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// WriteAssignments writes the header and one row per assignment.
func WriteAssignments(w io.Writer, assignments []Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AssignmentHeader); err != nil {
		return err
	}
	for _, a := range assignments {
		row := []string{a.EmailAddress, a.Name, formatOptional(a.USD), formatOptional(a.Nanowit), string(a.Source), a.Secret}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAssignments parses an assignment CSV, skipping its header.
func ReadAssignments(r io.Reader) ([]Assignment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(AssignmentHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]Assignment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		a := Assignment{
			EmailAddress: row[0],
			Name:         row[1],
			Source:       Source(row[4]),
			Secret:       row[5],
		}
		// Unparseable USD amounts count as zero.
		a.USD, _ = strconv.ParseUint(row[2], 10, 64)
		if a.Nanowit, err = parseOptional(row[3]); err != nil {
			return nil, errors.Wrapf(ErrMalformed, "row %d: nanowit: %v", i+2, err)
		}
		out = append(out, a)
	}
	return out, nil
}

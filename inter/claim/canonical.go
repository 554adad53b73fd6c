package claim

import (
	"bytes"
	"encoding/json"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rony4d/witgen/inter/claimpk"
)

const hexDigits = "0123456789abcdef"

// MarshalIndent renders v as JSON indented with four spaces, without HTML
// escaping and without a trailing newline. With ascii set, every non-ASCII
// character is written as a \uXXXX escape (UTF-16 surrogate pairs beyond the
// BMP), the format proof signatures are computed over.
func MarshalIndent(v interface{}, ascii bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if !ascii {
		return out, nil
	}
	return escapeNonASCII(out), nil
}

// escapeNonASCII rewrites multi-byte UTF-8 sequences of a JSON document as
// \u escapes. Non-ASCII bytes only ever appear inside strings.
func escapeNonASCII(in []byte) []byte {
	out := make([]byte, 0, len(in))
	escape := func(r rune) {
		out = append(out, '\\', 'u',
			hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
	}
	for len(in) > 0 {
		if in[0] < utf8.RuneSelf {
			out = append(out, in[0])
			in = in[1:]
			continue
		}
		r, size := utf8.DecodeRune(in)
		in = in[size:]
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			escape(r1)
			escape(r2)
		} else {
			escape(r)
		}
	}
	return out
}

// SigningBytes returns the exact bytes the issuer signs for a proof.
func (d ProofData) SigningBytes() ([]byte, error) {
	return MarshalIndent(d, true)
}

// Verify checks the DER signature of the proof against the issuer key.
func (p *ParticipantProof) Verify(issuer claimpk.PubKey) bool {
	msg, err := p.Data.SigningBytes()
	if err != nil {
		return false
	}
	sig, err := claimpk.DecodeHex(p.Signature)
	if err != nil {
		return false
	}
	return claimpk.VerifySignatureEncoded(claimpk.DER, sig, msg, issuer.Bytes())
}

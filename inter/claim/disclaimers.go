package claim

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/rony4d/witgen/inter/claimpk"
)

// Disclaimers are the legal acknowledgements a participant signs when
// claiming. Each one is signed verbatim (the JSON text below, UTF-8) with a
// DER-encoded secp256k1 signature, so the strings must never be reformatted.
var Disclaimers = []string{
	`{"title":"Your Initial Instrument is canceled, converted and exchanged into the Tokens","nextText":"Accept and continue","content":["Each and any of the agreements, contracts, instruments or documents, including without limitation Simple Agreements for Future Tokens, Debt Payable by Assets or Prepaid Forward Purchase Agreements (each, an “Initial Instrument”) executed by the Token Holder and Witnet Foundation (the “Company”) is hereby automatically converted and exchanged into the Tokens and such Initial Instrument(s) are hereby canceled, released, extinguished and of no further force and effect and therefore, all outstanding indebtedness and all other obligations set forth therein are immediately deemed repaid and satisfied in full and irrevocably discharged, terminated and released in their entirety and all assets, property and rights of the Company shall be deemed to be free and clear of any security interests or liens of the Token Holder (the “Conversion”)."]}`,
	`{"title":"The Tokens constitute payment in full of the Initial Instrument and you provide the Company with a full release of claims","nextText":"Accept and continue","content":["The release of the Tokens shall constitute payment in full of the Initial Instrument(s) held by the Token Holder, and following the Conversion, the Company shall have no further liability to the Token Holder with respect to the Initial Instrument(s) held by the Token Holder, and upon the release of the Tokens, the Token Holder hereby releases and discharges the Company and its successors in interest, predecessors in interest, parents, subsidiaries, affiliates, and the officers, directors, stockholders, partners, employees and agents of any and all of them from any and all claims, defaults, debts, charges, damages, demands, obligations, causes, actions or rights of actions related to the Initial Instruments or arising thereunder and whether known or unknown."]}`,
	`{"title":"The Tokens constitute payment in full of the Initial Instrument and you waive any rights you may have thereunder","nextText":"Accept and continue","content":["To the extent necessary or required to effectuate the Conversion, the Company and the Token Holder agree that the foregoing constitutes an amendment to the outstanding Initial Instruments and shall supersede all terms of the Initial Instruments and the Loan Agreements that are inconsistent with the terms hereof and (ii) any notices required in connection with the Conversion pursuant to the Initial Instruments are hereby waived."]}`,
	`{"title":"Tokens are designed to be used. Company will not arrange or promote any trading of the Tokens","nextText":"Accept and continue","content":["The Tokens are designed to be used for their intended functionality as compensation for nodes that retrieve, aggregate and deliver data upon request from third party software developers. The consumptive orientation of the Tokens diminishes the possibility that the Tokens could appreciate in value or that Token holders might be inclined to trade the Tokens on secondary marketplaces. The Company will never arrange for, the trading of the Tokens on secondary markets or platforms. The Company will not engage in buybacks with respect to the Tokens."]}`,
	`{"title":"You are solely responsible for the results obtained by the use of the Tokens","nextText":"Accept and continue","content":["Token Holder assumes all risk and liability for the results obtained by the use of the Tokens and regardless of any oral or written statements made by the Company, by way of technical advice or otherwise, related to the use of the Tokens."]}`,
}

var (
	ErrDisclaimerMissing   = errors.New("disclaimer signature missing")
	ErrDisclaimerSignature = errors.New("invalid disclaimer signature")
	ErrDisclaimerKey       = errors.New("disclaimers signed by different keys")
)

// DisclaimersFor returns the disclaimers a participant of the given source
// has to sign. Sources that never held an initial instrument (founders,
// stakeholders, the foundation and TIP participants) only acknowledge the
// token usage terms. Unknown sources get the full list.
func DisclaimersFor(source Source) []string {
	switch source {
	case SourceFoundation, SourceFounder, SourceStakeholder, SourceTIP:
		return Disclaimers[3:]
	default:
		return Disclaimers
	}
}

// VerifyDisclaimers checks that every disclaimer required for the claim's
// source is present under its ordinal index ("0", "1", ...) and carries a
// valid DER signature over the disclaimer text. All of them must be signed
// by the same key, the claiming key, which is returned.
func VerifyDisclaimers(cf *ClaimFile) (claimpk.PubKey, error) {
	var signer claimpk.PubKey
	for i, text := range DisclaimersFor(cf.Source) {
		index := strconv.Itoa(i)
		ack, ok := cf.Disclaimers[index]
		if !ok {
			return claimpk.PubKey{}, errors.Wrapf(ErrDisclaimerMissing, "disclaimer %s", index)
		}
		pub, err := claimpk.FromString(ack.PublicKey)
		if err != nil {
			return claimpk.PubKey{}, errors.Wrapf(ErrDisclaimerSignature, "disclaimer %s: %v", index, err)
		}
		sig, err := claimpk.DecodeHex(ack.Signature)
		if err != nil {
			return claimpk.PubKey{}, errors.Wrapf(ErrDisclaimerSignature, "disclaimer %s: %v", index, err)
		}
		if !claimpk.VerifySignatureEncoded(claimpk.DER, sig, []byte(text), pub.Bytes()) {
			return claimpk.PubKey{}, errors.Wrapf(ErrDisclaimerSignature, "disclaimer %s", index)
		}
		if signer.Empty() {
			signer = pub
		} else if signer.String() != pub.String() {
			return claimpk.PubKey{}, errors.Wrapf(ErrDisclaimerKey, "disclaimer %s signed by %s, expected %s", index, pub, signer)
		}
	}
	return signer, nil
}

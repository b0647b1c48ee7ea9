package doctype

import "strings"

// uiIDs maps the stable document slot ids sent by the intake UI (lower-cased)
// to their canonical type. Matches here bypass the heuristics entirely.
var uiIDs = map[string]Tag{
	"idcopy":                ID,
	"proofofaddress":        ProofOfAddress,
	"proofofforeignaddress": ProofOfForeignAddress,
	"taxcertificate":        TaxCertificate,
	"bankingdetails":        BankingDetails,
	"partnershipagreement":  PartnershipAgreement,
	"authorisation":         AuthorisationLetter,
	"trustdocs":             TrustDocuments,
	"companydocs":           CompanyDocuments,
	"ccdocs":                ClosedCorporationDocuments,
	"shareholderdocs":       ShareholderDocuments,
	"partnerdocs":           PartnerDocuments,
	"trusteedocs":           TrusteeDocuments,
	"proofofinsurance":      ProofOfInsurance,
}

// heuristic is one fallback rule. Rules are evaluated in slice order and the
// first match wins, so more specific rules must precede general ones.
type heuristic struct {
	match func(s string) bool
	tag   Tag
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

var heuristics = []heuristic{
	{containsAny("id"), ID},
	{containsAll("foreign", "address"), ProofOfForeignAddress},
	{containsAny("address"), ProofOfAddress},
	{containsAny("tax"), TaxCertificate},
	{containsAny("bank"), BankingDetails},
	{containsAny("partnership"), PartnershipAgreement},
	{containsAny("authorisation", "authorization"), AuthorisationLetter},
	{containsAny("trust"), TrustDocuments},
	// "ck" matches far more than CK certificates (e.g. "stock", "check").
	// Kept as-is; this is probably a latent misclassification.
	{containsAny("corporation", "ck"), ClosedCorporationDocuments},
	{containsAny("company"), CompanyDocuments},
	{containsAny("shareholder"), ShareholderDocuments},
	{containsAny("partner"), PartnerDocuments},
	// Unreachable in practice: anything containing "trustee" already matched "trust".
	{containsAny("trustee"), TrusteeDocuments},
	{containsAny("insurance"), ProofOfInsurance},
}

// Normalize maps a UI document id or free-form label to a canonical Tag.
// It never fails: unrecognised input yields Unknown.
func Normalize(expected string) Tag {
	s := strings.ToLower(expected)
	if tag, ok := uiIDs[s]; ok {
		return tag
	}
	for _, h := range heuristics {
		if h.match(s) {
			return h.tag
		}
	}
	return Unknown
}

package doctype

var checklists = map[Tag][]string{
	ID: {
		"check blurriness; text is readable",
		"check ID photo present; face unobstructed",
		"check front and back uploaded (for card IDs) if applicable",
		"check no glare/shadows/cropped edges; orientation upright",
		"check ID number, full names, and DOB are present and readable",
	},
	ProofOfAddress: {
		"check full name and street address are present and readable",
		"check issue date is present and within last 3 months",
		"check issuer/logo or document type label is visible",
		"check full page captured (not partial), legible",
	},
	ProofOfForeignAddress: {
		"check name and foreign address are present and readable",
		"check document date is present and recent (last 3-6 months)",
		"check issuer/logo visible",
		"if not in English, check a translation doc/section is also provided",
	},
	TaxCertificate: {
		"check name/entity present and readable",
		"check tax/reference number present",
		"check period/year and/or issue date present",
		"check issuer/authority name or logo is visible; full page legible",
	},
	BankingDetails: {
		"check bank name/logo and document date present (recent, last 3 months)",
		"check account holder name present and readable",
		"check account number and branch/IBAN present",
		"check it is a bank letter/statement (not just a photo of a bank card)",
	},
	PartnershipAgreement: {
		"check parties’ names are present and readable",
		"check signature page(s) included (presence only)",
		"check dates present and readable",
		"check all pages present and legible",
	},
	AuthorisationLetter: {
		"check on letterhead or includes org details",
		"check authorised person’s name and ID/passport number present",
		"check signed and dated (presence only)",
		"check scope of authorisation is described in the text",
	},
	TrustDocuments: {
		"check trust deed included (all pages) and legible",
		"check registration/letters of authority number present",
		"check list of current trustees present and readable",
		"check signatures/stamps present (presence only)",
	},
	CompanyDocuments: {
		"check incorporation/registration certificate included; reg. number present",
		"check current directors/members list included and legible",
		"check issuer/registry details visible",
		"if not in English, check translation attached",
	},
	ClosedCorporationDocuments: {
		"check founding docs/CK certificate included; reg. number present",
		"check members list included and legible",
		"check issuer/registry details visible",
		"check complete set; pages readable",
	},
	ShareholderDocuments: {
		"check share certificates/register included; shows holder names and share amounts/%",
		"check dates and signatures present (presence only)",
		"check names appear in uploaded ID documents (cross-check if available)",
	},
	PartnerDocuments: {
		"check each partner’s ID uploaded and legible (use ID checks)",
		"check partner names appear in the partnership agreement (if available)",
		"check completeness and legibility",
	},
	TrusteeDocuments: {
		"check each trustee’s ID uploaded and legible (use ID checks)",
		"check trustee names appear in trust documents (if available)",
		"check completeness and legibility",
	},
	ProofOfInsurance: {
		"check policy schedule/certificate included and legible",
		"check insured party name appears in the applicant/entity docs (if available)",
		"check policy number and valid from/to dates present",
		"check insurer name/logo visible",
	},
}

var defaultChecklist = []string{
	"check the document is legible (not blurry, no obstructions)",
	"check issuer/source and date are visible if applicable",
	"check names and identifiers are present if applicable",
}

// Checklist returns the review criteria for tag. Any tag without its own
// entry, Unknown included, gets the generic legibility checklist.
// The returned slice is a copy and may be modified by the caller.
func Checklist(tag Tag) []string {
	items, ok := checklists[tag]
	if !ok {
		items = defaultChecklist
	}
	return append([]string(nil), items...)
}

// LeniencyPolicy tells the analysis collaborator how tolerant to be of minor defects.
type LeniencyPolicy struct {
	// Heading is printed before the rules; empty for the generic policy.
	Heading string
	Rules   []string
}

// Lines returns the heading (when set) followed by the rules.
func (p LeniencyPolicy) Lines() []string {
	lines := make([]string, 0, len(p.Rules)+1)
	if p.Heading != "" {
		lines = append(lines, p.Heading)
	}
	return append(lines, p.Rules...)
}

var idLeniency = LeniencyPolicy{
	Heading: "Leniency rules for ID checks:",
	Rules: []string{
		"- Only set quality_ok=false if the majority of key fields are unreadable OR the face is obscured to the point of not being recognizable.",
		"- Minor blur, small glare, light shadows, or slight cropping are OK if names, ID number, and DOB can be read.",
		"- Consider front/back satisfied if both sides appear anywhere in the file (even if on the same page or as a collage), or if the visible side contains all required info.",
		"- Do NOT include nitpicks in fail_reasons; include only material issues that would block acceptance.",
	},
}

var generalLeniency = LeniencyPolicy{
	Rules: []string{
		"General leniency: Only set quality_ok=false if key required fields are unreadable. Ignore minor blur, small glare, light shadows, or slight cropping.",
		"Do NOT include nitpicks in fail_reasons; include only material issues that would block acceptance.",
	},
}

// Leniency selects the leniency policy for tag: ID documents get their own
// rules, every other type shares the general policy.
func Leniency(tag Tag) LeniencyPolicy {
	p := generalLeniency
	if tag == ID {
		p = idLeniency
	}
	p.Rules = append([]string(nil), p.Rules...)
	return p
}

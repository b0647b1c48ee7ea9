// Package doctype maps UI document identifiers to canonical document types and
// provides the fixed review criteria and leniency rules for each type.
// All tables are immutable, so every function here is safe for concurrent use.
package doctype

// Tag is a canonical document type.
type Tag string

// Canonical document types
const (
	ID                         Tag = "id"
	ProofOfAddress             Tag = "proof_of_address"
	ProofOfForeignAddress      Tag = "proof_of_foreign_address"
	TaxCertificate             Tag = "tax_certificate"
	BankingDetails             Tag = "banking_details"
	PartnershipAgreement       Tag = "partnership_agreement"
	AuthorisationLetter        Tag = "authorisation_letter"
	TrustDocuments             Tag = "trust_documents"
	CompanyDocuments           Tag = "company_documents"
	ClosedCorporationDocuments Tag = "closed_corporation_documents"
	ShareholderDocuments       Tag = "shareholder_documents"
	PartnerDocuments           Tag = "partner_documents"
	TrusteeDocuments           Tag = "trustee_documents"
	ProofOfInsurance           Tag = "proof_of_insurance"
	Unknown                    Tag = "unknown"
)

// All returns every canonical tag in declaration order, Unknown last.
func All() []Tag {
	return []Tag{
		ID,
		ProofOfAddress,
		ProofOfForeignAddress,
		TaxCertificate,
		BankingDetails,
		PartnershipAgreement,
		AuthorisationLetter,
		TrustDocuments,
		CompanyDocuments,
		ClosedCorporationDocuments,
		ShareholderDocuments,
		PartnerDocuments,
		TrusteeDocuments,
		ProofOfInsurance,
		Unknown,
	}
}

// String returns the wire form of the tag.
func (t Tag) String() string {
	return string(t)
}

// Known reports whether t is one of the canonical tags other than Unknown.
func (t Tag) Known() bool {
	_, ok := checklists[t]
	return ok
}

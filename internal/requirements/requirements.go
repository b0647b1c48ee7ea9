// Package requirements holds the table of documents a client must supply for
// each entity type and account type.
package requirements

import "github.com/jonathan/fica-intake/internal/doctype"

// Entity types accepted by the intake
const (
	Individual        = "Individual"
	Partnership       = "Partnership"
	Trust             = "Trust"
	ClosedCorporation = "ClosedCorporation"
	PrivateCompany    = "PrivateCompany"
	PublicCompany     = "PublicCompany"
	ForeignCompany    = "ForeignCompany"
	OtherLegalEntity  = "OtherLegalEntity"
)

// AccountTransporter is the account type that additionally requires proof of insurance.
const AccountTransporter = "Transporter"

// Descriptor describes one document slot on the intake form.
type Descriptor struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	HelpText string `json:"helpText"`
}

// Resolved is a Descriptor together with the document type and criteria the
// analysis step will apply to it.
type Resolved struct {
	Descriptor
	DocumentType doctype.Tag `json:"documentType"`
	Criteria     []string    `json:"criteria"`
}

var (
	proofOfAddress = Descriptor{ID: "proofOfAddress", Title: "Proof of Address", HelpText: "Utility bill or bank statement no older than 3 months."}
	idCopy         = Descriptor{ID: "idCopy", Title: "Copy of ID Document", HelpText: "A clear, certified copy of your valid ID document or passport."}
	taxCertificate = Descriptor{ID: "taxCertificate", Title: "Copy of Tax Certificate", HelpText: "Your latest tax certificate from the revenue service."}
	bankingDetails = Descriptor{ID: "bankingDetails", Title: "Confirmation of Banking Details", HelpText: "A bank-stamped letter confirming your account details."}
	authorisation  = Descriptor{ID: "authorisation", Title: "Authorisation", HelpText: "A letter authorising the representative to act on behalf of the entity."}
	authPersonID   = Descriptor{ID: "authPersonId", Title: "Copy of Authorised Person ID", HelpText: "Certified ID copy of the authorized person."}
	directorID     = Descriptor{ID: "directorId", Title: "Copy of Director ID", HelpText: "Certified ID copies for all directors."}
	shareholderDoc = Descriptor{ID: "shareholderDocs", Title: "Copy of Shareholder Documents", HelpText: "Shareholder register and relevant documents."}
	companyDocs    = Descriptor{ID: "companyDocs", Title: "Company Documents", HelpText: "Certificate of Incorporation, Memorandum of Incorporation."}
	insurance      = Descriptor{ID: "proofOfInsurance", Title: "Proof of Insurance", HelpText: "Required for Transporter accounts. Please provide your insurance certificate."}
)

var byEntity = map[string][]Descriptor{
	Individual: {proofOfAddress, idCopy, taxCertificate, bankingDetails},
	Partnership: {
		taxCertificate,
		bankingDetails,
		{ID: "partnershipAgreement", Title: "Partnership Agreement", HelpText: "The official agreement document for the partnership."},
		{ID: "partnerIds", Title: "Copy of Partners’ IDs", HelpText: "Certified ID copies for all partners."},
		{ID: "authPersonId", Title: "Copy of Authorised Person ID", HelpText: "Certified ID copy of the person authorized to act on behalf of the partnership."},
		{ID: "partnerDocs", Title: "Copy of Partner Documents", HelpText: "Any other relevant documents for the partners."},
		authorisation,
	},
	Trust: {
		taxCertificate,
		bankingDetails,
		{ID: "trustDocs", Title: "Trust Documents", HelpText: "The official trust deed and any amendments."},
		authPersonID,
		{ID: "trusteeBeneficiaryIds", Title: "Copy of Trustee and Beneficiary ID", HelpText: "Certified ID copies for all trustees and beneficiaries."},
		{ID: "founderId", Title: "Copy of Founder ID", HelpText: "Certified ID copy of the founder of the trust."},
		{ID: "trusteeDocs", Title: "Copy of Trustee Documents", HelpText: "Any other relevant documents for the trustees."},
		authorisation,
	},
	ClosedCorporation: {
		proofOfAddress,
		taxCertificate,
		bankingDetails,
		{ID: "ccDocs", Title: "Closed Corporation Documents", HelpText: "Founding statements and certificates of the CC."},
		authPersonID,
		{ID: "memberIds", Title: "Copy of Members’ ID", HelpText: "Certified ID copies for all members of the CC."},
		authorisation,
	},
	PrivateCompany: {proofOfAddress, taxCertificate, bankingDetails, companyDocs, authPersonID, directorID, shareholderDoc, authorisation},
	PublicCompany:  {proofOfAddress, taxCertificate, bankingDetails, companyDocs, authPersonID, directorID, shareholderDoc, authorisation},
	ForeignCompany: {
		proofOfAddress,
		{ID: "proofOfForeignAddress", Title: "Proof of Foreign Address", HelpText: "Proof of address from the country of origin."},
		taxCertificate,
		bankingDetails,
		{ID: "foreignCompanyDocs", Title: "Foreign Company Documents", HelpText: "Official documents for the foreign company."},
		authPersonID,
		directorID,
		shareholderDoc,
		authorisation,
	},
	OtherLegalEntity: {
		proofOfAddress,
		taxCertificate,
		bankingDetails,
		{ID: "otherLegalDocs", Title: "Other Legal Person Documents", HelpText: "Relevant legal documents for the entity."},
		authPersonID,
		authorisation,
	},
}

// EntityTypes returns the supported entity types in display order.
func EntityTypes() []string {
	return []string{
		Individual,
		Partnership,
		Trust,
		ClosedCorporation,
		PrivateCompany,
		PublicCompany,
		ForeignCompany,
		OtherLegalEntity,
	}
}

// KnownEntityType reports whether entityType has a requirements entry.
func KnownEntityType(entityType string) bool {
	_, ok := byEntity[entityType]
	return ok
}

// Required returns the documents required for the given entity and account
// type. An unknown entity type has no base requirements; the Transporter
// add-on still applies.
func Required(entityType, accountType string) []Descriptor {
	base := byEntity[entityType]
	docs := make([]Descriptor, 0, len(base)+1)
	docs = append(docs, base...)
	if accountType == AccountTransporter {
		docs = append(docs, insurance)
	}
	return docs
}

// Resolve returns Required with each slot's normalized document type and
// review criteria attached.
func Resolve(entityType, accountType string) []Resolved {
	docs := Required(entityType, accountType)
	resolved := make([]Resolved, 0, len(docs))
	for _, d := range docs {
		tag := doctype.Normalize(d.ID)
		resolved = append(resolved, Resolved{
			Descriptor:   d,
			DocumentType: tag,
			Criteria:     doctype.Checklist(tag),
		})
	}
	return resolved
}

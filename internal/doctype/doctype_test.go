package doctype

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_UIIDs(t *testing.T) {
	tests := []struct {
		input    string
		expected Tag
	}{
		{"idcopy", ID},
		{"proofofaddress", ProofOfAddress},
		{"proofofforeignaddress", ProofOfForeignAddress},
		{"taxcertificate", TaxCertificate},
		{"bankingdetails", BankingDetails},
		{"partnershipagreement", PartnershipAgreement},
		{"authorisation", AuthorisationLetter},
		{"trustdocs", TrustDocuments},
		{"companydocs", CompanyDocuments},
		{"ccdocs", ClosedCorporationDocuments},
		{"shareholderdocs", ShareholderDocuments},
		{"partnerdocs", PartnerDocuments},
		{"trusteedocs", TrusteeDocuments},
		{"proofofinsurance", ProofOfInsurance},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
			assert.Equal(t, tt.expected, Normalize(strings.ToUpper(tt.input)))
		})
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	for _, input := range []string{"idCopy", "IDCopy", "idcopy", "IDCOPY"} {
		assert.Equal(t, ID, Normalize(input), input)
	}
	assert.Equal(t, ProofOfAddress, Normalize("proofOfAddress"))
	assert.Equal(t, TaxCertificate, Normalize("taxCertificate"))
}

func TestNormalize_ExactMatchWinsOverHeuristics(t *testing.T) {
	// the "trust" heuristic would claim this before the "trustee" one
	assert.Equal(t, TrusteeDocuments, Normalize("trusteedocs"))
	assert.Equal(t, TrusteeDocuments, Normalize("trusteeDocs"))
	assert.Equal(t, TrustDocuments, Normalize("trustee letters"))
}

func TestNormalize_HeuristicPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Tag
	}{
		{"foreign address before address", "foreign address proof", ProofOfForeignAddress},
		{"plain address", "home address", ProofOfAddress},
		{"id substring wins first", "residential address", ID},
		{"id ui slot", "partnerIds", ID},
		{"auth person id", "authPersonId", ID},
		{"tax", "tax clearance", TaxCertificate},
		{"bank", "bank statement", BankingDetails},
		{"partnership", "partnership deed", PartnershipAgreement},
		{"british spelling", "authorisation letter", AuthorisationLetter},
		{"american spelling", "authorization letter", AuthorisationLetter},
		{"trust", "trust deed", TrustDocuments},
		{"corporation before company", "company incorporation", ClosedCorporationDocuments},
		{"ck substring", "stock register", ClosedCorporationDocuments},
		{"company", "foreignCompanyDocs", CompanyDocuments},
		{"shareholder", "shareholder register", ShareholderDocuments},
		{"partner", "partner list", PartnerDocuments},
		{"insurance", "insurance policy", ProofOfInsurance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_ProofOfForeignAddressCamelCase(t *testing.T) {
	assert.Equal(t, ProofOfForeignAddress, Normalize("proofOfForeignAddress"))
	assert.Equal(t, ProofOfForeignAddress, Normalize("Foreign Address"))
}

func TestNormalize_Unknown(t *testing.T) {
	for _, input := range []string{"", "randomgarbage123", "otherLegalDocs", "   "} {
		assert.Equal(t, Unknown, Normalize(input), "input %q", input)
	}
}

func TestChecklist_Total(t *testing.T) {
	for _, tag := range All() {
		items := Checklist(tag)
		require.NotEmpty(t, items, tag)
		for _, item := range items {
			assert.Contains(t, item, "check", "tag %s item %q", tag, item)
		}
	}
	assert.NotEmpty(t, Checklist(Tag("not_a_tag")))
}

func TestChecklist_KnownTagsHaveOwnEntries(t *testing.T) {
	seen := make(map[string]Tag)
	for _, tag := range All() {
		if tag == Unknown {
			assert.False(t, tag.Known())
			continue
		}
		assert.True(t, tag.Known(), tag)
		items := Checklist(tag)
		assert.GreaterOrEqual(t, len(items), 3, tag)
		assert.LessOrEqual(t, len(items), 5, tag)
		key := strings.Join(items, "|")
		if other, dup := seen[key]; dup {
			t.Errorf("tags %s and %s share a checklist", tag, other)
		}
		seen[key] = tag
	}
}

func TestChecklist_UnknownDefault(t *testing.T) {
	expected := []string{
		"check the document is legible (not blurry, no obstructions)",
		"check issuer/source and date are visible if applicable",
		"check names and identifiers are present if applicable",
	}
	assert.Equal(t, expected, Checklist(Unknown))
	assert.Equal(t, expected, Checklist(Tag("")))
}

func TestChecklist_Pure(t *testing.T) {
	first := Checklist(ID)
	second := Checklist(ID)
	assert.Equal(t, first, second)

	first[0] = "mutated"
	assert.NotEqual(t, "mutated", Checklist(ID)[0])
}

func TestLeniency(t *testing.T) {
	id := Leniency(ID)
	assert.Len(t, id.Rules, 4)
	assert.Equal(t, "Leniency rules for ID checks:", id.Heading)
	assert.Len(t, id.Lines(), 5)

	for _, tag := range []Tag{TaxCertificate, Unknown, ProofOfAddress, TrusteeDocuments} {
		p := Leniency(tag)
		assert.Len(t, p.Rules, 2, tag)
		assert.Empty(t, p.Heading, tag)
		assert.Equal(t, p.Rules, p.Lines())
	}
}

func TestLeniency_ReturnsCopy(t *testing.T) {
	p := Leniency(ID)
	p.Rules[0] = "mutated"
	assert.NotEqual(t, "mutated", Leniency(ID).Rules[0])
}

func TestEndToEnd_ProofOfAddress(t *testing.T) {
	tag := Normalize("proofofaddress")
	require.Equal(t, ProofOfAddress, tag)

	items := Checklist(tag)
	require.Len(t, items, 4)
	assert.True(t, strings.HasPrefix(items[0], "check full name and street address"))
	assert.Len(t, Leniency(tag).Rules, 2)
}

func TestEndToEnd_TrusteeDocs(t *testing.T) {
	tag := Normalize("trusteedocs")
	assert.Equal(t, TrusteeDocuments, tag)
	assert.Equal(t, "check each trustee’s ID uploaded and legible (use ID checks)", Checklist(tag)[0])
}

func TestConcurrentUse(t *testing.T) {
	inputs := []string{
		"idCopy", "proofOfAddress", "Proof of Foreign Address", "bank letter",
		"Company Documents", "trusteedocs", "insurance schedule", "something else",
	}
	type result struct {
		tag       Tag
		checklist []string
		leniency  []string
	}
	want := make(map[string]result, len(inputs))
	for _, in := range inputs {
		tag := Normalize(in)
		want[in] = result{tag: tag, checklist: Checklist(tag), leniency: Leniency(tag).Lines()}
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, in := range inputs {
					tag := Normalize(in)
					items := Checklist(tag)
					policy := Leniency(tag)
					assert.Equal(t, want[in].tag, tag, in)
					assert.Equal(t, want[in].checklist, items, in)
					assert.Equal(t, want[in].leniency, policy.Lines(), in)

					// Callers own what they get back.
					items[0] = "mutated"
					policy.Rules[0] = "mutated"
				}
			}
		}()
	}
	wg.Wait()

	for _, tag := range All() {
		assert.NotContains(t, Checklist(tag), "mutated", tag)
		assert.NotContains(t, Leniency(tag).Rules, "mutated", tag)
	}
}

package requirements

import (
	"testing"

	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(docs []Descriptor) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestRequired_Individual(t *testing.T) {
	docs := Required(Individual, "")
	assert.Equal(t, []string{"proofOfAddress", "idCopy", "taxCertificate", "bankingDetails"}, ids(docs))
}

func TestRequired_TransporterAddsInsurance(t *testing.T) {
	docs := Required(Individual, AccountTransporter)
	require.Len(t, docs, 5)
	assert.Equal(t, "proofOfInsurance", docs[4].ID)
	assert.Equal(t, "Proof of Insurance", docs[4].Title)
}

func TestRequired_UnknownEntity(t *testing.T) {
	assert.Empty(t, Required("Cooperative", ""))
	assert.Equal(t, []string{"proofOfInsurance"}, ids(Required("Cooperative", AccountTransporter)))
}

func TestRequired_KnownEntitiesWellFormed(t *testing.T) {
	for _, entity := range EntityTypes() {
		assert.True(t, KnownEntityType(entity), entity)
		docs := Required(entity, "")
		assert.NotEmpty(t, docs, entity)
		seen := make(map[string]bool)
		for _, d := range docs {
			assert.False(t, seen[d.ID], "duplicate slot %s for %s", d.ID, entity)
			seen[d.ID] = true
			assert.NotEmpty(t, d.Title)
			assert.NotEmpty(t, d.HelpText)
		}
	}
}

func TestRequired_ReturnsCopy(t *testing.T) {
	docs := Required(Trust, "")
	docs[0].Title = "mutated"
	assert.Equal(t, "Copy of Tax Certificate", Required(Trust, "")[0].Title)
}

func TestResolve_AttachesDocumentTypes(t *testing.T) {
	resolved := Resolve(ForeignCompany, AccountTransporter)
	byID := make(map[string]Resolved)
	for _, r := range resolved {
		byID[r.ID] = r
		assert.Equal(t, doctype.Checklist(r.DocumentType), r.Criteria)
	}

	assert.Equal(t, doctype.ProofOfAddress, byID["proofOfAddress"].DocumentType)
	assert.Equal(t, doctype.ProofOfForeignAddress, byID["proofOfForeignAddress"].DocumentType)
	assert.Equal(t, doctype.CompanyDocuments, byID["foreignCompanyDocs"].DocumentType)
	assert.Equal(t, doctype.ID, byID["directorId"].DocumentType)
	assert.Equal(t, doctype.ProofOfInsurance, byID["proofOfInsurance"].DocumentType)
}

func TestResolve_OtherLegalDocsFallsBackToDefaultChecklist(t *testing.T) {
	for _, r := range Resolve(OtherLegalEntity, "") {
		if r.ID == "otherLegalDocs" {
			assert.Equal(t, doctype.Unknown, r.DocumentType)
			assert.Len(t, r.Criteria, 3)
			return
		}
	}
	t.Fatal("otherLegalDocs slot missing")
}

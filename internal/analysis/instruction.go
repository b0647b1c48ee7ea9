package analysis

import (
	"fmt"
	"strings"

	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/jonathan/fica-intake/internal/prompts"
)

// BuildDocumentInstruction renders the document-check instruction for tag:
// preamble, expected category, numbered checklist, leniency lines and the
// strict output directive, in that order.
func BuildDocumentInstruction(tag doctype.Tag) string {
	checks := doctype.Checklist(tag)
	numbered := make([]string, len(checks))
	for i, check := range checks {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, check)
	}

	tmpl := prompts.MustGet(prompts.AnalysisFile, prompts.DocumentCheck)
	return prompts.Format(tmpl, map[string]string{
		"ExpectedType": tag.String(),
		"Checks":       strings.Join(numbered, "\n"),
		"Leniency":     strings.Join(doctype.Leniency(tag).Lines(), "\n"),
	})
}

// DocumentInstruction normalizes a caller-supplied expected type and renders its instruction.
func DocumentInstruction(expectedType string) (doctype.Tag, string) {
	tag := doctype.Normalize(expectedType)
	return tag, BuildDocumentInstruction(tag)
}

// IDInstruction returns the identity document instruction. It has no checklist.
func IDInstruction() string {
	return prompts.MustGet(prompts.AnalysisFile, prompts.IDCheck)
}

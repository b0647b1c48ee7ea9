// Package observability provides formatted output utilities for the intake CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/jonathan/fica-intake/internal/requirements"
	"github.com/jonathan/fica-intake/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are wrapped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, l := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %-*s │\n", inner, l)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line at spaces so no piece exceeds width. Continuation lines keep
// the leading indentation plus two spaces.
func wrap(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))] + "  "

	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		switch {
		case current == "":
			current = line[:len(line)-len(strings.TrimLeft(line, " "))] + word
		case len(current)+1+len(word) > width:
			out = append(out, current)
			current = indent + word
		default:
			current += " " + word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// bulletList writes up to maxItemsToShow items, noting how many were left out.
func bulletList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintClassification outputs the canonical type, criteria and leniency for one UI id.
func (p *Printer) PrintClassification(id string, tag doctype.Tag, prompt bool) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Input:  %s\n", id))
	sb.WriteString(fmt.Sprintf("Type:   %s\n", tag))
	if !tag.Known() {
		sb.WriteString("        (no specific checklist, generic review applies)\n")
	}

	if prompt {
		sb.WriteString("\nChecklist:\n")
		bulletList(&sb, doctype.Checklist(tag))
		sb.WriteString("\nLeniency:\n")
		for _, line := range doctype.Leniency(tag).Lines() {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	p.printBox("DOCUMENT TYPE", strings.TrimRight(sb.String(), "\n"))
}

// PrintChecklist outputs the documents required for an entity and account type.
func (p *Printer) PrintChecklist(entityType, accountType string, docs []requirements.Resolved) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Entity:   %s\n", entityType))
	if accountType != "" {
		sb.WriteString(fmt.Sprintf("Account:  %s\n", accountType))
	}
	sb.WriteString(fmt.Sprintf("Required: %d documents\n", len(docs)))

	for i, d := range docs {
		sb.WriteString(fmt.Sprintf("\n%d. %s [%s]\n", i+1, d.Title, d.DocumentType))
		if d.HelpText != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", d.HelpText))
		}
	}

	p.printBox("REQUIRED DOCUMENTS", strings.TrimRight(sb.String(), "\n"))
}

// PrintDocumentAnalysis outputs the result of a document check.
func (p *Printer) PrintDocumentAnalysis(expected string, a *types.DocumentAnalysis) {
	if a == nil {
		return
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Expected:  %s (%s)\n", expected, doctype.Normalize(expected)))
	sb.WriteString(fmt.Sprintf("Detected:  %s\n", a.DetectedType))
	sb.WriteString(fmt.Sprintf("Type OK:   %s\n", yesNo(a.ExpectedTypeOK)))
	sb.WriteString(fmt.Sprintf("Quality:   %s\n", okOrNot(a.QualityOK)))
	writeAdvisory(&sb, a.Advisory)

	p.printBox("DOCUMENT CHECK", strings.TrimRight(sb.String(), "\n"))
}

// PrintIDAnalysis outputs the result of an identity document check.
func (p *Printer) PrintIDAnalysis(a *types.IDAnalysis) {
	if a == nil {
		return
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID document: %s\n", yesNo(a.IsID)))
	sb.WriteString(fmt.Sprintf("Blurry:      %s\n", yesNo(a.IsBlurry)))
	if a.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason:      %s\n", a.Reason))
	}
	writeAdvisory(&sb, a.Advisory)

	p.printBox("ID CHECK", strings.TrimRight(sb.String(), "\n"))
}

func writeAdvisory(sb *strings.Builder, adv types.Advisory) {
	status := "✓"
	if !adv.OK {
		status = "✗"
	}
	sb.WriteString(fmt.Sprintf("\n%s %s\n", status, adv.Message))
	bulletList(sb, adv.Reasons)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func okOrNot(b bool) string {
	if b {
		return "ok"
	}
	return "issues found"
}

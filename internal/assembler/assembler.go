// Package assembler turns a ranked retrieval result into a single bounded
// context block, preserving ranking order and provenance.
package assembler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"dialograg/internal/domain"
)

// DefaultBudget is the default context size budget, in runes.
const DefaultBudget = 4000

const separator = "\n\n"

// Assemble greedily includes units in rank order until the next unit would
// exceed budget, dropping lowest-ranked units first. A unit is never split,
// except when the top-ranked unit alone exceeds the budget: then it is
// truncated to fit and included alone. Deterministic, no side effects.
func Assemble(result domain.RetrievalResult, budget int) domain.AssembledContext {
	if budget <= 0 {
		budget = DefaultBudget
	}
	var (
		b        strings.Builder
		included []domain.Citation
		used     int
		trunc    bool
	)
	for _, su := range result {
		block := formatUnit(su.Unit)
		cost := utf8.RuneCountInString(block)
		if len(included) > 0 {
			cost += utf8.RuneCountInString(separator)
		}
		if used+cost > budget {
			if len(included) == 0 {
				b.WriteString(truncateRunes(block, budget))
				included = append(included, domain.Citation{ID: su.Unit.ID, Score: su.Score})
				trunc = true
			}
			break
		}
		if len(included) > 0 {
			b.WriteString(separator)
		}
		b.WriteString(block)
		used += cost
		included = append(included, domain.Citation{ID: su.Unit.ID, Score: su.Score})
	}
	return domain.AssembledContext{Text: b.String(), Included: included, Truncated: trunc}
}

// formatUnit tags the unit text with its id so the generation model can cite
// which dialogue supports which claim.
func formatUnit(u domain.DialogueUnit) string {
	return fmt.Sprintf("[Dialogue %s]\n%s", u.ID, u.Text)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

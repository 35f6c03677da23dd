package llm

import (
	"fmt"
	"strings"

	"github.com/contractscan/contract-risk-scanner/constants"
)

// DefaultExcerptChars caps how much contract text is embedded in the prompt.
const DefaultExcerptChars = 5000

// BuildAnalysisPrompt renders the fixed clause-analysis instruction template
// around the first maxChars characters of the extracted contract text. Pure
// and deterministic: same text in, same prompt out.
func BuildAnalysisPrompt(contractText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultExcerptChars
	}
	excerpt := contractText
	if len(excerpt) > maxChars {
		excerpt = excerpt[:maxChars]
	}

	categories := `"` + strings.Join(constants.AsStringSlice(), `","`) + `"`
	severities := `"` + strings.Join(constants.SeveritiesAsStringSlice(), `","`) + `"`

	var b strings.Builder
	b.WriteString("You are a legal contract analysis assistant. Analyze the contract text below and return a SINGLE VALID JSON OBJECT with two top-level keys:\n\n")
	b.WriteString("1) \"clauses\": an array where each item is an object with these exact fields:\n")
	b.WriteString("   - clause_id (integer)\n")
	b.WriteString("   - original_text (string)\n")
	b.WriteString("   - simplified_text (string)\n")
	b.WriteString("   - risk_category (one of [" + categories + "])\n")
	b.WriteString("   - severity (one of [" + severities + "])\n")
	b.WriteString("   - why_it_matters (string)\n")
	b.WriteString("   - actionable_recommendations (array of short strings, 1-3 items)\n\n")
	b.WriteString("2) \"actionable_recommendations_summary\": array of 3-6 short, prioritized actions for the entire contract.\n\n")
	b.WriteString("Important rules:\n")
	b.WriteString("- Respond ONLY with a single valid JSON object. No commentary, no markdown, no numbered prefixes.\n")
	b.WriteString("- Limit the clause extraction to concise chunks, up to 20 clauses.\n")
	b.WriteString("- Keep each \"simplified_text\" to one sentence, and actionable recommendations to very short instructions.\n\n")
	b.WriteString(fmt.Sprintf("Contract text (first %d characters):\n", maxChars))
	b.WriteString(excerpt)
	return b.String()
}

package warmer

import (
	"math"
	"regexp"
	"slices"
	"strings"
)

var (
	whitespace      = regexp.MustCompile(`\s+`)
	currencyPattern = regexp.MustCompile(`(?i)[$€£¥]\s?\d[\d,]*(\.\d+)?(\s?(k|m|bn|b|million|billion|trillion|thousand)\b)?|\b\d[\d,]*(\.\d+)?\s?(dollars|usd|eur|euros|gbp)\b`)
	datePattern     = regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(,\s*\d{4})?\b|\bq[1-4]\s+\d{4}\b|\b(19|20)\d{2}\b`)
	numberPattern   = regexp.MustCompile(`\b\d+([.,]\d+)*%?`)

	comparisonWords = []string{" vs ", " vs. ", "versus", "compare", "comparison", "difference between", "better than"}
	financialWords  = []string{"revenue", "profit", "earnings", "margin", "cash flow", " eps ", "dividend", " ratio", "debt", "valuation", "{amount}", "income", "sales", "ebitda", "balance sheet", "stock", "share price"}
	companyWords    = []string{"company", "companies", " inc ", " inc.", " corp", " ceo ", "headquarter", "founded", "apple", "microsoft", "alphabet", "google", "amazon", "nvidia", "tesla", " meta "}
)

var expectedTokens = map[Category]int{
	CategoryFinancial:  150,
	CategoryComparison: 250,
	CategoryCompany:    120,
	CategoryGeneral:    100,
}

// Normalize lowercases q, collapses whitespace and replaces amounts, dates and
// numbers with placeholders so that variants of one question share a pattern.
func Normalize(q string) string {
	s := strings.ToLower(strings.TrimSpace(whitespace.ReplaceAllString(q, " ")))
	s = currencyPattern.ReplaceAllString(s, "{amount}")
	s = datePattern.ReplaceAllString(s, "{date}")
	return numberPattern.ReplaceAllString(s, "{number}")
}

// Categorize assigns the most specific category whose vocabulary appears in the query.
func Categorize(q string) Category {
	s := " " + strings.Trim(strings.ToLower(q), "?!.") + " "
	switch {
	case containsAny(s, comparisonWords):
		return CategoryComparison
	case containsAny(s, financialWords):
		return CategoryFinancial
	case containsAny(s, companyWords):
		return CategoryCompany
	default:
		return CategoryGeneral
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// AnalyzePatterns groups queries by normalized pattern. The most recent query of
// each pattern represents it; priority grows with the pattern's share of the
// most frequent one: 1 + round(9 * freq / maxFreq).
func (w *Warmer) AnalyzePatterns(queries []string) []Query {
	type group struct {
		text  string
		count int
	}
	groups := make(map[string]*group)
	maxFreq := 0
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		p := Normalize(q)
		g, ok := groups[p]
		if !ok {
			g = &group{text: strings.TrimSpace(q)}
			groups[p] = g
		}
		g.count++
		maxFreq = max(maxFreq, g.count)
	}

	out := make([]Query, 0, len(groups))
	for p, g := range groups {
		share := float64(g.count) / float64(maxFreq)
		cat := Categorize(p)
		out = append(out, Query{
			Text:           g.text,
			Pattern:        p,
			Priority:       1 + int(math.Round(9*share)),
			ExpectedTokens: expectedTokens[cat],
			Category:       cat,
			FrequencyScore: share,
		})
	}
	sortByPriority(out)
	return out
}

type template struct {
	text     string
	category Category
	priority int
}

var templates = []template{
	{"What was {company}'s total revenue last fiscal year?", CategoryFinancial, 6},
	{"What is {company}'s operating margin?", CategoryFinancial, 5},
	{"How much free cash flow did {company} generate last year?", CategoryFinancial, 5},
	{"What is {company}'s debt to equity ratio?", CategoryFinancial, 4},
	{"Who is the CEO of {company}?", CategoryCompany, 4},
	{"What are {company}'s main business segments?", CategoryCompany, 3},
	{"Compare {company} and {peer} revenue growth.", CategoryComparison, 4},
}

var companies = []string{"Apple", "Microsoft", "Alphabet", "Amazon", "Nvidia"}

// TemplateQueries expands the template catalogue over the tracked companies.
func (w *Warmer) TemplateQueries() []Query {
	out := make([]Query, 0, len(templates)*len(companies))
	for _, t := range templates {
		for i, c := range companies {
			text := strings.ReplaceAll(t.text, "{company}", c)
			text = strings.ReplaceAll(text, "{peer}", companies[(i+1)%len(companies)])
			out = append(out, Query{
				Text:           text,
				Priority:       t.priority,
				ExpectedTokens: expectedTokens[t.category],
				Category:       t.category,
			})
		}
	}
	return out
}

// sortByPriority orders by priority, then frequency, then text.
func sortByPriority(qs []Query) {
	slices.SortStableFunc(qs, func(a, b Query) int {
		switch {
		case a.Priority != b.Priority:
			return b.Priority - a.Priority
		case a.FrequencyScore != b.FrequencyScore:
			if a.FrequencyScore > b.FrequencyScore {
				return -1
			}
			return 1
		default:
			return strings.Compare(a.Text, b.Text)
		}
	})
}

package triage

// KeywordGroup scores one industry: each keyword found in the text adds Weight
// once, however often it appears.
type KeywordGroup struct {
	Industry Industry
	Keywords []string
	Weight   int
}

// KeywordTable is scanned in slice order; on equal scores the earlier group
// wins.
type KeywordTable []KeywordGroup

// clone returns a deep copy so an Engine never shares backing arrays with the
// caller.
func (t KeywordTable) clone() KeywordTable {
	out := make(KeywordTable, len(t))
	for i, g := range t {
		out[i] = KeywordGroup{
			Industry: g.Industry,
			Keywords: append([]string(nil), g.Keywords...),
			Weight:   g.Weight,
		}
	}
	return out
}

// DefaultIndustryTable returns a copy of the built-in industry table.
func DefaultIndustryTable() KeywordTable {
	return defaultIndustries.clone()
}

var defaultIndustries = KeywordTable{
	{
		Industry: IndustryEcommerce,
		Weight:   3,
		Keywords: []string{
			"ecommerce", "e-commerce", "online store", "shopify", "woocommerce",
			"online shop", "retail", "selling online", "merchant", "storefront",
		},
	},
	{
		Industry: IndustryHealthcare,
		Weight:   3,
		Keywords: []string{
			"healthcare", "health care", "medical", "hospital", "clinic", "patient",
			"hipaa", "pharmacy", "health", "doctor", "physician", "healthcare provider",
		},
	},
	{
		Industry: IndustryFinance,
		Weight:   3,
		Keywords: []string{
			"finance", "financial", "banking", "bank", "investment", "trading", "fintech",
			"accounting", "payments", "crypto", "blockchain", "loan", "credit",
		},
	},
	{
		Industry: IndustrySaaS,
		Weight:   2,
		Keywords: []string{
			"saas", "software as a service", "subscription", "platform", "app",
			"application", "software product", "b2b software",
		},
	},
}

// intentRule maps a keyword family to an intent. Rules are evaluated in order
// and a later match replaces an earlier one.
type intentRule struct {
	intent   Intent
	keywords []string
}

var intentRules = []intentRule{
	{IntentWebsite, []string{"website", "web"}},
	{IntentEcommerce, []string{"ecommerce", "e-commerce", "shop"}},
	{IntentAutomation, []string{"automat", "workflow", "process"}},
	{IntentAIAssistant, []string{"ai", "bot", "assistant"}},
	{IntentDataPipeline, []string{"data", "pipeline", "integration"}},
}

var urgencyPhrases = []string{
	"urgent", "asap", "this week", "today", "immediately", "rush", "deadline", "launch",
}

// Complexity scoring inputs.
var (
	integrationTools = []string{
		"shopify", "quickbooks", "salesforce", "hubspot", "slack", "sheets", "zapier", "api", "webhook",
	}
	complexityTerms = []string{
		"custom", "enterprise", "migration", "legacy", "scalable", "multi", "platform",
	}
	requirementWords = []string{
		"and", "also", "plus", "additionally", "need", "require",
	}
)

const (
	integrationWeight    = 4
	complexityTermWeight = 2
	requirementBonus     = 3
	requirementThreshold = 3
)

// lengthSteps are cumulative: a 450 character inquiry earns all three.
var lengthSteps = []struct {
	over   int
	points int
}{
	{100, 2},
	{200, 3},
	{400, 3},
}

var industrySurcharge = map[Industry]int{
	IndustryHealthcare: 5,
	IndustryFinance:    5,
	IndustrySaaS:       3,
}

var budgetSurcharge = map[Budget]int{
	Budget10kTo35k: 2,
	Budget35kTo70k: 4,
	Budget70kPlus:  6,
}

const (
	largeComplexityScore  = 12
	mediumComplexityScore = 6
)

// Lead batch scoring inputs.
var (
	leadKeywords = []string{"automation", "ai", "integrate", "rpa"}
	leadTools    = []string{"shopify", "hubspot", "quickbooks", "slack", "salesforce"}
)

const (
	leadKeywordPoints = 10
	leadToolPoints    = 5
	leadLengthPoints  = 5
	leadLengthOver    = 200
	hotLeadScore      = 20
	warmLeadScore     = 10
)

package triage

import "strings"

// priceTable holds one intent's price ranges per budget bracket. Inside the
// 10k-35k bracket Small projects take the lower range; inside 35k-70k Medium
// projects do.
type priceTable struct {
	entry         string // 3k-10k
	growthSmall   string // 10k-35k, Small
	growth        string // 10k-35k, otherwise
	scaleMedium   string // 35k-70k, Medium
	scale         string // 35k-70k, otherwise
	premium       string // 70k+
	unbudgeted    map[Complexity]string
	clampsExtreme bool // entry forces Small, premium forces Large
}

// quote returns the price range and the complexity after any budget override.
// The override is applied to the final label only; it never feeds back into
// the complexity score.
func (t priceTable) quote(b Budget, hasBudget bool, c Complexity) (string, Complexity) {
	if !hasBudget {
		return t.unbudgeted[c], c
	}
	switch b {
	case Budget3kTo10k:
		if t.clampsExtreme {
			c = ComplexitySmall
		}
		return t.entry, c
	case Budget10kTo35k:
		if c == ComplexitySmall {
			return t.growthSmall, c
		}
		return t.growth, c
	case Budget35kTo70k:
		if c == ComplexityMedium {
			return t.scaleMedium, c
		}
		return t.scale, c
	default:
		if t.clampsExtreme {
			c = ComplexityLarge
		}
		return t.premium, c
	}
}

// profile is the per-intent recommendation and pricing rule.
type profile struct {
	recommend func(Industry) string
	prices    priceTable
}

func profileFor(i Intent) profile {
	if p, ok := profiles[i]; ok {
		return p
	}
	return discoveryProfile
}

// industryPrefix renders "Healthcare-focused " or "" when no industry is set.
func industryPrefix(i Industry) string {
	if i == "" {
		return ""
	}
	s := string(i)
	return strings.ToUpper(s[:1]) + s[1:] + "-focused "
}

func prefixed(base string) func(Industry) string {
	return func(i Industry) string {
		return industryPrefix(i) + base
	}
}

// specialised returns a fixed recommendation for the listed industries and
// falls back to the prefixed generic one.
func specialised(base string, byIndustry map[Industry]string) func(Industry) string {
	generic := prefixed(base)
	return func(i Industry) string {
		if r, ok := byIndustry[i]; ok {
			return r
		}
		return generic(i)
	}
}

var profiles = map[Intent]profile{
	IntentWebsite: {
		recommend: prefixed("Foundational website + SEO optimization"),
		prices: priceTable{
			entry:       "$3K-$8K",
			growthSmall: "$8K-$15K",
			growth:      "$15K-$25K",
			scaleMedium: "$25K-$40K",
			scale:       "$40K-$60K",
			premium:     "$60K+",
			unbudgeted: map[Complexity]string{
				ComplexitySmall:  "$3K-$10K",
				ComplexityMedium: "$10K-$20K",
				ComplexityLarge:  "$20K+",
			},
		},
	},
	IntentEcommerce: {
		recommend: prefixed("E-commerce platform + payment automation"),
		prices: priceTable{
			entry:       "$8K-$12K",
			growthSmall: "$12K-$20K",
			growth:      "$20K-$30K",
			scaleMedium: "$30K-$50K",
			scale:       "$50K-$65K",
			premium:     "$65K+",
			unbudgeted: map[Complexity]string{
				ComplexitySmall:  "$10K-$20K",
				ComplexityMedium: "$20K-$40K",
				ComplexityLarge:  "$40K+",
			},
			clampsExtreme: true,
		},
	},
	IntentAutomation: {
		recommend: specialised("Process automation + workflow orchestration", map[Industry]string{
			IndustryHealthcare: "HIPAA-compliant process automation + workflow orchestration",
			IndustryFinance:    "Secure financial process automation + compliance workflows",
			IndustrySaaS:       "SaaS workflow automation + API integrations",
		}),
		prices: priceTable{
			entry:       "$7K-$10K",
			growthSmall: "$10K-$18K",
			growth:      "$18K-$30K",
			scaleMedium: "$30K-$50K",
			scale:       "$50K-$65K",
			premium:     "$65K+",
			unbudgeted: map[Complexity]string{
				ComplexitySmall:  "$7K-$18K",
				ComplexityMedium: "$18K-$35K",
				ComplexityLarge:  "$35K+",
			},
			clampsExtreme: true,
		},
	},
	IntentAIAssistant: {
		recommend: specialised("AI assistant + knowledge base integration", map[Industry]string{
			IndustryHealthcare: "Healthcare AI assistant + HIPAA-compliant knowledge base",
			IndustryFinance:    "Financial AI assistant + secure data integration",
		}),
		prices: priceTable{
			entry:       "$10K-$12K",
			growthSmall: "$12K-$25K",
			growth:      "$25K-$32K",
			scaleMedium: "$32K-$55K",
			scale:       "$55K-$68K",
			premium:     "$68K+",
			unbudgeted: map[Complexity]string{
				ComplexitySmall:  "$10K-$25K",
				ComplexityMedium: "$25K-$50K",
				ComplexityLarge:  "$50K+",
			},
			clampsExtreme: true,
		},
	},
}

// discoveryProfile serves general and data-pipeline inquiries.
var discoveryProfile = profile{
	recommend: prefixed("Discovery session + custom solution"),
	prices: priceTable{
		entry:       "$3K-$8K",
		growthSmall: "$8K-$30K",
		growth:      "$8K-$30K",
		scaleMedium: "$30K-$65K",
		scale:       "$30K-$65K",
		premium:     "$65K+",
		unbudgeted: map[Complexity]string{
			ComplexitySmall:  "TBD after consultation",
			ComplexityMedium: "TBD after consultation",
			ComplexityLarge:  "TBD after consultation",
		},
	},
}

package triage

import (
	"fmt"
	"strings"
)

const (
	complexityNoteLarge  = "This is a substantial project that will require careful planning and phased delivery. We recommend starting with a discovery phase to map out all requirements."
	complexityNoteMedium = "This project will involve multiple components that we can deliver in phases for better manageability."
	complexityNoteSmall  = "This project is well-scoped and we can move quickly to get you results."

	industryNoteFmt = "Given your %s industry, we'll ensure compliance with relevant regulations and industry best practices."
	mismatchNoteFmt = "Note: I detected %s industry indicators in your inquiry. If this differs from your selection, please let me know so we can tailor the solution accurately."
	budgetNoteFmt   = "Based on your budget range (%s), we can tailor the solution to maximize value within your investment."
	urgencyNote     = "I understand this is time-sensitive, so I've prioritized your inquiry. We can expedite the timeline if needed."
)

var timelines = map[Complexity]string{
	ComplexitySmall:  "2-3 weeks",
	ComplexityMedium: "4-6 weeks",
	ComplexityLarge:  "6-8 weeks",
}

// Timeline returns the delivery estimate for a complexity tier.
func Timeline(c Complexity) string {
	if t, ok := timelines[c]; ok {
		return t
	}
	return timelines[ComplexityLarge]
}

// RenderReply builds the draft reply for an analysed inquiry. industry and
// budget are the same optional form values passed to Analyze; origin is the
// public site origin used for the demo link, e.g. "https://endicode.dev".
func RenderReply(a LeadAnalysis, industry, budget, origin string) string {
	var notes []string

	switch a.Complexity {
	case ComplexityLarge:
		notes = append(notes, complexityNoteLarge)
	case ComplexityMedium:
		notes = append(notes, complexityNoteMedium)
	default:
		notes = append(notes, complexityNoteSmall)
	}

	if effective := effectiveIndustry(a, industry); effective != "" {
		notes = append(notes, fmt.Sprintf(industryNoteFmt, effective))
	}
	if a.Mismatch() && a.DetectedIndustry != nil {
		notes = append(notes, fmt.Sprintf(mismatchNoteFmt, *a.DetectedIndustry))
	}
	if b, ok := ParseBudget(budget); ok {
		notes = append(notes, fmt.Sprintf(budgetNoteFmt, b))
	}
	if a.Urgency == UrgencyHigh {
		notes = append(notes, urgencyNote)
	}

	var sb strings.Builder
	sb.WriteString("Hi there,\n\n")
	fmt.Fprintf(&sb, "Thank you for reaching out to Endicode! Based on your inquiry, I can see you're looking for %s solutions.\n\n",
		strings.ToLower(a.Intent.String()))
	sb.WriteString("Here's what I recommend:\n")
	fmt.Fprintf(&sb, "• %s\n", a.Recommendation)
	fmt.Fprintf(&sb, "• Estimated investment: %s\n", a.PriceRange)
	fmt.Fprintf(&sb, "• Timeline: %s\n", Timeline(a.Complexity))
	fmt.Fprintf(&sb, "• Complexity: %s", a.Complexity)
	for _, n := range notes {
		sb.WriteString("\n\n")
		sb.WriteString(n)
	}
	sb.WriteString("\n\nI'd love to discuss this further and show you exactly how we can help. Please reach out on WhatsApp so we can chat about your project details.")
	sb.WriteString("\n\nBest regards,\nThe Endicode Team")
	fmt.Fprintf(&sb, "\n\nP.S. Feel free to try our automation demo to see the kind of intelligent workflows we build: %s/demo",
		strings.TrimRight(origin, "/"))
	return sb.String()
}

// effectiveIndustry prefers any detection over the form selection, matching
// what the reply discloses to the sender.
func effectiveIndustry(a LeadAnalysis, industry string) Industry {
	if a.DetectedIndustry != nil {
		return *a.DetectedIndustry
	}
	explicit, _ := ParseIndustry(industry)
	return explicit
}

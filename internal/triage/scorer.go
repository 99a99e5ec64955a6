package triage

import (
	"strings"
	"unicode/utf8"
)

// ScoreLeads scores every record. Output order and length mirror the input;
// filtering and deduplication happen before this call.
func ScoreLeads(records []LeadInput) []LeadData {
	out := make([]LeadData, len(records))
	for i, r := range records {
		score, segment := ScoreMessage(r.Message)
		out[i] = LeadData{
			Name:    r.Name,
			Email:   r.Email,
			Company: r.Company,
			Message: r.Message,
			Score:   score,
			Segment: segment,
		}
	}
	return out
}

// ScoreMessage returns the lead score and segment for one message. An empty
// message scores 0.
func ScoreMessage(message string) (int, Segment) {
	lower := strings.ToLower(message)
	score := countContained(lower, leadKeywords)*leadKeywordPoints +
		countContained(lower, leadTools)*leadToolPoints
	if utf8.RuneCountInString(message) > leadLengthOver {
		score += leadLengthPoints
	}
	return score, SegmentFor(score)
}

// SegmentFor maps a score to Hot (>=20), Warm (>=10) or Cold.
func SegmentFor(score int) Segment {
	switch {
	case score >= hotLeadScore:
		return SegmentHot
	case score >= warmLeadScore:
		return SegmentWarm
	default:
		return SegmentCold
	}
}

// SegmentCounts tallies scored leads per segment.
func SegmentCounts(leads []LeadData) map[Segment]int {
	counts := map[Segment]int{SegmentHot: 0, SegmentWarm: 0, SegmentCold: 0}
	for _, l := range leads {
		counts[l.Segment]++
	}
	return counts
}

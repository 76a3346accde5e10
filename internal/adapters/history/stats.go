package history

import (
	"context"
	"sort"

	"github.com/mikey/phish-analyzer/internal/core"
)

// Stats summarizes an analysis history.
type Stats struct {
	TotalAnalyzed    int
	PhishingDetected int
	Legitimate       int
	DetectionRate    float64
	AvgConfidence    float64
	LabelBreakdown   map[core.Label]int
	TopSenderDomains []DomainCount
}

// DomainCount pairs a sender domain with how many flagged messages it
// produced.
type DomainCount struct {
	Domain string
	Count  int
}

// ComputeStats derives usage statistics from every recorded result in
// the sink.
func ComputeStats(ctx context.Context, sink core.HistorySink) (*Stats, error) {
	results, err := sink.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		LabelBreakdown: make(map[core.Label]int),
	}

	domains := make(map[string]int)
	confidenceSum := 0.0

	for _, r := range results {
		stats.TotalAnalyzed++
		confidenceSum += r.Confidence
		stats.LabelBreakdown[r.Classification.Label]++

		switch r.Classification.Label {
		case core.LabelLegitimate:
			stats.Legitimate++
		case core.LabelPhishing, core.LabelMalware, core.LabelSpam:
			stats.PhishingDetected++
			domains[core.SenderDomain(r.Message.Sender)]++
		}
	}

	if stats.TotalAnalyzed > 0 {
		stats.DetectionRate = float64(stats.PhishingDetected) / float64(stats.TotalAnalyzed) * 100
		stats.AvgConfidence = confidenceSum / float64(stats.TotalAnalyzed)
	}

	for domain, count := range domains {
		stats.TopSenderDomains = append(stats.TopSenderDomains, DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(stats.TopSenderDomains, func(i, j int) bool {
		if stats.TopSenderDomains[i].Count != stats.TopSenderDomains[j].Count {
			return stats.TopSenderDomains[i].Count > stats.TopSenderDomains[j].Count
		}
		return stats.TopSenderDomains[i].Domain < stats.TopSenderDomains[j].Domain
	})
	if len(stats.TopSenderDomains) > 10 {
		stats.TopSenderDomains = stats.TopSenderDomains[:10]
	}

	return stats, nil
}

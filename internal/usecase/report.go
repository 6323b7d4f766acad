package usecase

import (
	"context"
	"sort"
	"time"

	"MarketLens/internal/domain/models"
)

// ReportUseCase ranks the outcome of an analysis run. It only compares
// already-computed records; every number in the report comes from the
// analysis pipeline.
type ReportUseCase struct {
	analysis *AnalysisUseCase
}

func NewReportUseCase(analysis *AnalysisUseCase) *ReportUseCase {
	return &ReportUseCase{analysis: analysis}
}

// Build runs an analysis and summarizes it into a Report.
func (uc *ReportUseCase) Build(ctx context.Context, p AnalysisParams) (*models.Report, error) {
	res, err := uc.analysis.Run(ctx, p)
	if err != nil {
		return nil, err
	}

	records := make([]models.AnnualMetricsRecord, 0, len(res.Symbols))
	for _, sa := range res.Symbols {
		if sa.Metrics != nil {
			records = append(records, *sa.Metrics)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Symbol < records[j].Symbol })

	r := &models.Report{
		From:        p.From,
		To:          p.To,
		GeneratedAt: time.Now().UTC(),
		Records:     records,
		Excluded:    res.Excluded,
		Errors:      res.Errors,
	}

	for _, rec := range records {
		if r.TopReturn == nil || rec.AnnualReturn > r.TopReturn.Value {
			r.TopReturn = &models.Finding{Symbol: rec.Symbol, Value: rec.AnnualReturn}
		}
		if r.BestSharpe == nil || rec.SharpeRatio > r.BestSharpe.Value {
			r.BestSharpe = &models.Finding{Symbol: rec.Symbol, Value: rec.SharpeRatio}
		}
		if r.LowestVolatility == nil || rec.AnnualVolatility < r.LowestVolatility.Value {
			r.LowestVolatility = &models.Finding{Symbol: rec.Symbol, Value: rec.AnnualVolatility}
		}
		if r.WorstDrawdown == nil || rec.MaxDrawdown < r.WorstDrawdown.Value {
			r.WorstDrawdown = &models.Finding{Symbol: rec.Symbol, Value: rec.MaxDrawdown}
		}
	}

	return r, nil
}

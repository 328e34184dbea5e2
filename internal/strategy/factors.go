package strategy

import (
	"fmt"
	"math"
	"strings"

	"StatementSentinel/internal/model"
)

const (
	maxAdjustment     = 100
	creditBaseline    = 650
	creditDivisor     = 4.0
	maxCreditPoints   = 50
	registryActive    = 20
	registryInactive  = -20
	registryNotFound  = -40
	verifiedPoints    = 30
	notVerifiedPoints = -50
)

// Final is the phase-4 outcome.
type Final struct {
	Phase4         model.Phase4Result
	Grade          model.Grade
	Confidence     model.Confidence
	Recommendation model.Recommendation
}

// Finalize applies the bounded external adjustment to the internal score and
// derives grade, confidence and recommendation. Services absent from p3
// contribute nothing.
func Finalize(base int, p3 model.Phase3Result, alerts []model.Alert) Final {
	var adjustments []model.RiskFactor
	if p3.Registry != nil {
		adjustments = append(adjustments, scoreRegistry(p3.Registry))
	}
	if p3.Credit != nil {
		adjustments = append(adjustments, scoreCredit(p3.Credit))
	}
	if p3.Verification != nil {
		adjustments = append(adjustments, scoreVerification(p3.Verification))
	}
	sum := 0.0
	for _, a := range adjustments {
		sum += a.Points
	}
	adj := int(math.Max(-maxAdjustment, math.Min(maxAdjustment, sum)))
	final := clampScore(float64(base + adj))
	grade := mapGrade(final)

	return Final{
		Phase4: model.Phase4Result{
			BaseScore:   base,
			Adjustment:  adj,
			FinalScore:  final,
			Adjustments: adjustments,
		},
		Grade:          grade,
		Confidence:     confidence(p3),
		Recommendation: recommend(grade, alerts),
	}
}

func scoreRegistry(r *model.RegistryResult) model.RiskFactor {
	switch {
	case !r.Found:
		return model.RiskFactor{Name: "Business registry", Points: registryNotFound, Commentary: "not found"}
	case strings.EqualFold(r.Status, "ACTIVE"):
		return model.RiskFactor{Name: "Business registry", Points: registryActive, Commentary: "active"}
	default:
		return model.RiskFactor{Name: "Business registry", Points: registryInactive,
			Commentary: fmt.Sprintf("status %q", r.Status)}
	}
}

func scoreCredit(c *model.CreditResult) model.RiskFactor {
	pts := math.Round(float64(c.Score-creditBaseline) / creditDivisor)
	pts = math.Max(-maxCreditPoints, math.Min(maxCreditPoints, pts))
	return model.RiskFactor{Name: "Credit check", Points: pts, Commentary: fmt.Sprintf("score %d", c.Score)}
}

func scoreVerification(v *model.VerificationResult) model.RiskFactor {
	if v.Verified {
		return model.RiskFactor{Name: "Business verification", Points: verifiedPoints, Commentary: "verified"}
	}
	return model.RiskFactor{Name: "Business verification", Points: notVerifiedPoints, Commentary: "not verified"}
}

// confidence reflects how many paid results back the score.
func confidence(p3 model.Phase3Result) model.Confidence {
	n := 0
	if p3.Registry != nil {
		n++
	}
	if p3.Credit != nil {
		n++
	}
	if p3.Verification != nil {
		n++
	}
	switch {
	case n == 3:
		return model.ConfidenceHigh
	case n > 0:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func recommend(grade model.Grade, alerts []model.Alert) model.Recommendation {
	counts := model.CountBySeverity(alerts)
	switch {
	case grade == model.GradeF || counts[model.SeverityCritical] > 0:
		return model.RecommendDecline
	case (grade == model.GradeA || grade == model.GradeB) && counts[model.SeverityHigh] == 0:
		return model.RecommendApprove
	default:
		return model.RecommendReview
	}
}

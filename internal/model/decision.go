package model

import "time"

// Service names the paid external verification collaborators.
type Service string

const (
	ServiceBusinessRegistry     Service = "BUSINESS_REGISTRY_LOOKUP"
	ServiceCreditCheck          Service = "CREDIT_CHECK"
	ServiceBusinessVerification Service = "BUSINESS_VERIFICATION"
)

// SkipReason explains why an external check was not used.
type SkipReason string

const (
	SkipCriteriaNotMet          SkipReason = "CRITERIA_NOT_MET"
	SkipGateNotMet              SkipReason = "GATE_NOT_MET"
	SkipAnalysisBudgetExhausted SkipReason = "ANALYSIS_BUDGET_EXHAUSTED"
	SkipDailyBudgetExhausted    SkipReason = "DAILY_BUDGET_EXHAUSTED"
	SkipCallFailed              SkipReason = "CALL_FAILED"
)

// SkippedCheck records an external check the waterfall did not pay for or
// could not use.
type SkippedCheck struct {
	Service Service    `json:"service"`
	Reason  SkipReason `json:"reason"`
	Detail  string     `json:"detail"`
}

// CriterionResult is one weighted phase-2 checklist item.
type CriterionResult struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
	Actual    float64 `json:"actual"`
	Weight    float64 `json:"weight"`
	Passed    bool    `json:"passed"`
}

// Phase1Result is the free in-process analysis.
type Phase1Result struct {
	InternalScore    int              `json:"internalScore"`
	StatementCount   int              `json:"statementCount"`
	TransactionCount int              `json:"transactionCount"`
	AlertCounts      map[Severity]int `json:"alertCounts"`
	ScoreFactors     []RiskFactor     `json:"scoreFactors"`
	Cost             float64          `json:"cost"`
}

// Phase2Result is the criteria evaluation.
type Phase2Result struct {
	Criteria      []CriterionResult `json:"criteria"`
	PassRatio     float64           `json:"passRatio"`
	PassThreshold float64           `json:"passThreshold"`
	ProceedToPaid bool              `json:"proceedToPaid"`
}

// RegistryResult is the BusinessRegistryLookup response.
type RegistryResult struct {
	Found            bool      `json:"found"`
	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// CreditResult is the CreditCheck response.
type CreditResult struct {
	Score  int    `json:"score"`
	Report string `json:"report"`
}

// VerificationResult is the BusinessVerification response.
type VerificationResult struct {
	Verified bool              `json:"verified"`
	Details  map[string]string `json:"details,omitempty"`
}

// ExternalCall records one issued phase-3 call.
type ExternalCall struct {
	Service  Service       `json:"service"`
	Cost     float64       `json:"cost"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Phase3Result is the set of conditional external calls.
type Phase3Result struct {
	Executed     bool                `json:"executed"`
	Calls        []ExternalCall      `json:"calls"`
	Registry     *RegistryResult     `json:"registry,omitempty"`
	Credit       *CreditResult       `json:"credit,omitempty"`
	Verification *VerificationResult `json:"verification,omitempty"`
}

// Phase4Result is the consolidation.
type Phase4Result struct {
	BaseScore   int          `json:"baseScore"`
	Adjustment  int          `json:"adjustment"`
	FinalScore  int          `json:"finalScore"`
	Adjustments []RiskFactor `json:"adjustments"`
}

// CostAnalysis is the phase-4 cost report.
type CostAnalysis struct {
	TotalCost            float64 `json:"totalCost"`
	FullPrice            float64 `json:"fullPrice"`
	CostSavings          float64 `json:"costSavings"`
	PerAnalysisBudget    float64 `json:"perAnalysisBudget"`
	BudgetUtilization    float64 `json:"budgetUtilization"`
	DailyBudgetRemaining float64 `json:"dailyBudgetRemaining"`
}

// WaterfallDecision is the per-phase record of one orchestration run.
type WaterfallDecision struct {
	Phase1             Phase1Result   `json:"phase1"`
	Phase2             Phase2Result   `json:"phase2"`
	Phase3             Phase3Result   `json:"phase3"`
	Phase4             Phase4Result   `json:"phase4"`
	ExternalAPIsCalled []Service      `json:"externalApisCalled"`
	Skipped            []SkippedCheck `json:"skipped"`
	CostAnalysis       CostAnalysis   `json:"costAnalysis"`
}

// Grade letters the final score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Confidence reflects how much paid verification backs the final score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Recommendation is the suggested underwriting action.
type Recommendation string

const (
	RecommendApprove Recommendation = "APPROVE"
	RecommendReview  Recommendation = "REVIEW"
	RecommendDecline Recommendation = "DECLINE"
)

// ExecutiveSummary is the headline of an analysis.
type ExecutiveSummary struct {
	FinalScore      int            `json:"finalScore"`
	Grade           Grade          `json:"grade"`
	ConfidenceLevel Confidence     `json:"confidenceLevel"`
	Recommendation  Recommendation `json:"recommendation"`
	AmountSpent     float64        `json:"amountSpent"`
	AmountSaved     float64        `json:"amountSaved"`
	SkippedChecks   []SkippedCheck `json:"skippedChecks"`
}

// AnalysisReport is the consolidated result handed to presentation layers.
type AnalysisReport struct {
	ID               string              `json:"id"`
	CreatedAt        time.Time           `json:"createdAt"`
	BusinessName     string              `json:"businessName,omitempty"`
	ExecutiveSummary ExecutiveSummary    `json:"executiveSummary"`
	WaterfallResults WaterfallDecision   `json:"waterfallResults"`
	Alerts           []Alert             `json:"alerts"`
	RiskAnalysis     *RiskAnalysisResult `json:"riskAnalysis"`
	Statements       []StatementReport   `json:"statements"`
}

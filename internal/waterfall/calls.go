package waterfall

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StatementSentinel/internal/budget"
	"StatementSentinel/internal/logger"
	"StatementSentinel/internal/model"
)

// plannedCall is a check whose cost is already reserved.
type plannedCall struct {
	check  Check
	invoke func(ctx context.Context, res *model.Phase3Result) error
}

var (
	errNotConfigured = errors.New("service not configured")
	errEmptyResponse = errors.New("empty response")
)

// phase3 reserves, in gate order, the cost of every check the internal score
// and both budgets allow, then issues the reserved calls concurrently. A
// failed call gives its reservation back to both budgets.
func (o *Orchestrator) phase3(ctx context.Context, id model.BusinessIdentity, score int, p2 model.Phase2Result, analysis *budget.AnalysisBudget) (model.Phase3Result, []model.SkippedCheck) {
	log := logger.FromContext(ctx)
	res := model.Phase3Result{Calls: []model.ExternalCall{}}
	skipped := []model.SkippedCheck{}

	if !p2.ProceedToPaid {
		reason, detail := model.SkipCriteriaNotMet, fmt.Sprintf("pass ratio %.2f below %.2f", p2.PassRatio, p2.PassThreshold)
		if p2.PassRatio >= p2.PassThreshold {
			reason, detail = model.SkipAnalysisBudgetExhausted, "no per-analysis budget"
		}
		for _, c := range o.checks {
			skipped = append(skipped, model.SkippedCheck{Service: c.Service, Reason: reason, Detail: detail})
		}
		return res, skipped
	}
	res.Executed = true

	var planned []plannedCall
	for _, c := range o.checks {
		invoke := o.invoker(c.Service, id)
		if invoke == nil {
			skipped = append(skipped, model.SkippedCheck{Service: c.Service, Reason: model.SkipCallFailed, Detail: errNotConfigured.Error()})
			continue
		}
		if score < c.Gate {
			skipped = append(skipped, model.SkippedCheck{Service: c.Service, Reason: model.SkipGateNotMet,
				Detail: fmt.Sprintf("internal score %d below gate %d", score, c.Gate)})
			continue
		}
		ok, refused := budget.ReserveBoth(analysis, o.daily, c.Cost)
		if !ok {
			reason := model.SkipDailyBudgetExhausted
			if refused == budget.Ledger(analysis) {
				reason = model.SkipAnalysisBudgetExhausted
			}
			skipped = append(skipped, model.SkippedCheck{Service: c.Service, Reason: reason,
				Detail: fmt.Sprintf("cannot reserve %.2f", c.Cost)})
			continue
		}
		planned = append(planned, plannedCall{check: c, invoke: invoke})
	}

	outcomes := make([]model.ExternalCall, len(planned))
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, pc := range planned {
		wg.Add(1)
		go func(i int, pc plannedCall) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
			defer cancel()

			start := time.Now()
			var partial model.Phase3Result
			err := pc.invoke(cctx, &partial)
			call := model.ExternalCall{
				Service:  pc.check.Service,
				Cost:     pc.check.Cost,
				Success:  err == nil,
				Duration: time.Since(start),
			}
			if err != nil {
				call.Cost = 0
				call.Error = err.Error()
				analysis.Release(pc.check.Cost)
				o.daily.Release(pc.check.Cost)
				log.Warn().Err(err).Str("service", string(pc.check.Service)).Msg("external call failed")
			} else {
				mu.Lock()
				mergePhase3(&res, partial)
				mu.Unlock()
			}
			outcomes[i] = call
		}(i, pc)
	}
	wg.Wait()

	for _, call := range outcomes {
		res.Calls = append(res.Calls, call)
		if !call.Success {
			skipped = append(skipped, model.SkippedCheck{Service: call.Service, Reason: model.SkipCallFailed, Detail: call.Error})
		}
	}
	return res, skipped
}

// invoker binds a service to its collaborator, or returns nil when none is
// configured.
func (o *Orchestrator) invoker(svc model.Service, id model.BusinessIdentity) func(context.Context, *model.Phase3Result) error {
	switch svc {
	case model.ServiceBusinessRegistry:
		if o.services.Registry == nil {
			return nil
		}
		return func(ctx context.Context, res *model.Phase3Result) error {
			r, err := o.services.Registry.LookupBusiness(ctx, id)
			if err == nil && r == nil {
				err = errEmptyResponse
			}
			res.Registry = r
			return callError(ctx, err)
		}
	case model.ServiceCreditCheck:
		if o.services.Credit == nil {
			return nil
		}
		return func(ctx context.Context, res *model.Phase3Result) error {
			r, err := o.services.Credit.CheckCredit(ctx, id)
			if err == nil && r == nil {
				err = errEmptyResponse
			}
			res.Credit = r
			return callError(ctx, err)
		}
	case model.ServiceBusinessVerification:
		if o.services.Verification == nil {
			return nil
		}
		return func(ctx context.Context, res *model.Phase3Result) error {
			r, err := o.services.Verification.VerifyBusiness(ctx, id)
			if err == nil && r == nil {
				err = errEmptyResponse
			}
			res.Verification = r
			return callError(ctx, err)
		}
	}
	return nil
}

// callError normalizes a collaborator error. A timeout counts as a failure
// even if the collaborator ignored the context.
func callError(ctx context.Context, err error) error {
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err == nil || errors.Is(err, model.ErrExternalCall) {
		return err
	}
	return fmt.Errorf("%v: %w", err, model.ErrExternalCall)
}

func mergePhase3(dst *model.Phase3Result, src model.Phase3Result) {
	if src.Registry != nil {
		dst.Registry = src.Registry
	}
	if src.Credit != nil {
		dst.Credit = src.Credit
	}
	if src.Verification != nil {
		dst.Verification = src.Verification
	}
}

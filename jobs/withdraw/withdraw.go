package withdraw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/auditlog"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/chains"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/metrics"
)

type StepResult int8

const (
	StepSucceeded StepResult = iota + 1
	StepFailed
	StepTimedOut
)

func (r StepResult) String() string {
	switch r {
	case StepSucceeded:
		return "succeeded"
	case StepFailed:
		return "failed"
	case StepTimedOut:
		return "timed-out"
	}
	return "unknown"
}

const (
	StepCommission = "withdraw-commission-and-rewards"
	StepDelegator  = "withdraw-all-delegator-rewards"
)

type StepOutcome struct {
	Name   string
	Result StepResult
	Reason string
}

// Outcome is the composite result of one executor invocation. Partial
// success is a valid terminal state.
type Outcome struct {
	Commission StepOutcome
	Delegator  StepOutcome
}

func (o Outcome) Succeeded() bool {
	return o.Commission.Result == StepSucceeded && o.Delegator.Result == StepSucceeded
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s=%s %s=%s", o.Commission.Name, o.Commission.Result, o.Delegator.Name, o.Delegator.Result)
}

// Executor runs the two-step reward-withdrawal sequence. Invoked at most
// once per tick; there is no retry within a tick, the next tick re-evaluates
// from fresh chain state.
type Executor struct {
	runner         chains.TxRunner
	audit          *auditlog.Logger
	log            *logrus.Logger
	metricsManager *metrics.MetricManager
	chainName      string
	settle         time.Duration
}

func NewExecutor(runner chains.TxRunner, audit *auditlog.Logger, log *logrus.Logger, metricsManager *metrics.MetricManager, chainName string, settle time.Duration) *Executor {
	return &Executor{
		runner:         runner,
		audit:          audit,
		log:            log,
		metricsManager: metricsManager,
		chainName:      chainName,
		settle:         settle,
	}
}

func (e *Executor) ExecuteWithdrawal() Outcome {
	e.audit.Append("withdrawal sequence started")
	commission := e.runStep(StepCommission, e.runner.WithdrawCommissionAndRewards)
	// Both transactions bump the same account sequence number; submitting
	// them back-to-back risks a sequence mismatch at the chain layer.
	time.Sleep(e.settle)
	delegator := e.runStep(StepDelegator, e.runner.WithdrawAllDelegatorRewards)
	outcome := Outcome{Commission: commission, Delegator: delegator}
	e.audit.Appendf("withdrawal sequence completed: %s", outcome)
	option := "withdrawal_partial"
	if outcome.Succeeded() {
		option = "withdrawal_succeeded"
	}
	e.metricsManager.Counter.With("chain_name", e.chainName).With("option", option).Add(1)
	return outcome
}

// runStep executes one withdrawal transaction. A failure here never aborts
// the sequence: each withdrawal type is independently valuable.
func (e *Executor) runStep(name string, fn func() error) StepOutcome {
	e.audit.Appendf("%s started", name)
	err := fn()
	switch {
	case err == nil:
		e.audit.Appendf("%s succeeded", name)
		return StepOutcome{Name: name, Result: StepSucceeded}
	case errors.Is(err, context.DeadlineExceeded):
		e.log.Errorf("%v timed out:%+v", name, err)
		e.audit.Appendf("%s timed out: %v", name, err)
		return StepOutcome{Name: name, Result: StepTimedOut, Reason: err.Error()}
	default:
		e.log.Errorf("%v error:%+v", name, err)
		e.audit.Appendf("%s failed: %v", name, err)
		return StepOutcome{Name: name, Result: StepFailed, Reason: err.Error()}
	}
}

package monitoring

import (
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/auditlog"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/chains"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/config"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/jobs/withdraw"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/metrics"
)

// Withdrawer is the executor surface the monitor triggers; only when the
// balance is known and strictly below the minimum.
type Withdrawer interface {
	ExecuteWithdrawal() withdraw.Outcome
}

type Monitoring struct {
	query           chains.BalanceQuery
	executor        Withdrawer
	audit           *auditlog.Logger
	log             *logrus.Logger
	metricsManager  *metrics.MetricManager
	accountAddress  string
	denom           string
	minBalance      sdk.Int
	intervalSeconds int
}

func NewMonitoring(log *logrus.Logger, metricsManager *metrics.MetricManager, query chains.BalanceQuery, executor Withdrawer, audit *auditlog.Logger, cfg *config.Config) *Monitoring {
	minBalance, err := cfg.MinBalanceAmount()
	if err != nil {
		panic(fmt.Errorf("NewMonitoring error:%+v", err))
	}
	return &Monitoring{
		query:           query,
		executor:        executor,
		audit:           audit,
		log:             log,
		metricsManager:  metricsManager,
		accountAddress:  cfg.AccountAddress,
		denom:           cfg.Denom,
		minBalance:      minBalance,
		intervalSeconds: cfg.CheckIntervalSeconds,
	}
}

// Monitoring registers the balance check on the shared scheduler.
// SingletonMode keeps ticks single-flight: a tick that overruns the interval
// is never overlapped by the next one.
func (m *Monitoring) Monitoring(scheduler *gocron.Scheduler) {
	_, err := scheduler.Every(m.intervalSeconds).Seconds().SingletonMode().Do(func() {
		m.CheckAndMaybeWithdraw()
	})
	if err != nil {
		panic(fmt.Errorf("balance check scheduler.Every exec error:%+v", err))
	}
}

// CheckAndMaybeWithdraw is one tick: query the live balance, decide, act.
// Every failure path resolves to "skip withdrawal, log why"; nothing
// propagates past this boundary.
func (m *Monitoring) CheckAndMaybeWithdraw() {
	m.audit.Appendf("balance check started for %s", m.accountAddress)
	defer m.audit.Append("balance check completed")
	m.metricsManager.Counter.With("chain_name", m.query.ChainName()).With("option", "balance_check").Add(1)

	balance, err := m.query.SpendableBalance(m.denom)
	if err != nil {
		// Unknown balance, not zero. Uncertainty never triggers withdrawal.
		m.log.Errorf("SpendableBalance error:%+v", err)
		m.metricsManager.Counter.With("chain_name", m.query.ChainName()).With("option", "balance_check_error").Add(1)
		m.audit.Appendf("balance check error: %v; withdrawal skipped", err)
		return
	}
	m.exposeBalance(balance)

	if balance.Amount.LT(m.minBalance) {
		m.audit.Appendf("balance %s below minimum %s%s; starting withdrawal", balance, m.minBalance, m.denom)
		outcome := m.executor.ExecuteWithdrawal()
		if !outcome.Succeeded() {
			m.log.Errorf("withdrawal sequence incomplete: %v", outcome)
		}
		return
	}
	m.audit.Appendf("balance %s sufficient (minimum %s%s); no withdrawal", balance, m.minBalance, m.denom)
}

func (m *Monitoring) exposeBalance(balance sdk.Coin) {
	balanceFloat, err := strconv.ParseFloat(balance.Amount.String(), 64)
	if err != nil {
		m.log.Errorf("balance ParseFloat error:%+v", err)
		return
	}
	m.metricsManager.Gauge.With("chain_name", m.query.ChainName()).
		With("option", fmt.Sprintf("%v-balance", m.denom)).Set(balanceFloat)
}

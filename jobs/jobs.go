package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/auditlog"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/chains"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/config"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/jobs/monitoring"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/jobs/withdraw"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/metrics"
)

type WithdrawService struct {
	Monitor *monitoring.Monitoring
}

// NewWithdrawService wires config into the monitor/executor pair. Pass a nil
// scheduler to skip job registration (single-tick mode).
func NewWithdrawService(scheduler *gocron.Scheduler, cfg *config.Config) *WithdrawService {
	log := logrus.New()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("config.Validate error:%+v", err))
	}
	commander := chains.NewCommander(cfg.NodeBinary, log)
	client, err := chains.NewSymphonyClient(cfg, commander, log)
	if err != nil {
		panic(fmt.Errorf("chains.NewSymphonyClient error:%v\nchainName:%v,chainID:%v", err.Error(), cfg.ChainName, cfg.ChainID))
	}
	logrus.Printf("NewSymphonyClient %v success", cfg.ChainName)
	metricsManager := metrics.NewMetricManager()
	audit := auditlog.New(cfg.AuditLogPath, log)
	executor := withdraw.NewExecutor(client, audit, log, metricsManager, cfg.ChainName, time.Duration(cfg.SettleSeconds)*time.Second)
	monitor := monitoring.NewMonitoring(log, metricsManager, client, executor, audit, cfg)
	if scheduler != nil {
		monitor.Monitoring(scheduler)
	}
	return &WithdrawService{Monitor: monitor}
}

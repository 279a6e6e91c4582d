package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/config"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/jobs"
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/version"
)

var (
	rootCmd = &cobra.Command{
		Use:   "symphony-withdraw-bot",
		Short: "",
		Run:   func(cmd *cobra.Command, args []string) { _ = cmd.Help() },
	}
	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the balance monitor on its own schedule.",
		Run:   func(cmd *cobra.Command, args []string) { Run() },
	}
	onceCmd = &cobra.Command{
		Use:   "once",
		Short: "Run a single balance check and exit (for external schedulers).",
		Run:   func(cmd *cobra.Command, args []string) { RunOnce() },
	}
	versionCmd = version.NewVersionCommand()
)

func init() {
	startCmd.Flags().StringVarP(&config.LocalConfig, "config", "c", "", "")
	onceCmd.Flags().StringVarP(&config.LocalConfig, "config", "c", "", "")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(-1)
	}
}

func Run() {
	cfg := config.LoadConfigs()
	scheduler := gocron.NewScheduler(time.UTC)
	jobs.NewWithdrawService(scheduler, cfg)
	scheduler.StartAsync()
	metricMux := http.NewServeMux()
	metricMux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(cfg.MetricsAddr, metricMux); err != nil {
		logrus.Fatal(err)
	}
}

// RunOnce performs one tick. It always exits 0: failures are logged, not
// surfaced via exit status, because the external scheduler does not branch
// on exit code.
func RunOnce() {
	cfg := config.LoadConfigs()
	srv := jobs.NewWithdrawService(nil, cfg)
	srv.Monitor.CheckAndMaybeWithdraw()
}

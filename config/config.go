package config

import (
	"fmt"
	"os"
	"path/filepath"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/tools"
)

const (
	DefaultHomeDirName   = ".symphony-withdraw-bot"
	DefaultConfigDirName = "configs"
	DefaultConfigName    = "config.toml"

	// PassphraseEnv overrides KeyringPassphrase so the secret can stay out
	// of the config file entirely.
	PassphraseEnv = "SYMPHONY_KEYRING_PASSPHRASE"
)

var (
	Home            string
	LocalConfig     string
	UserDir, _      = os.UserHomeDir()
	DefaultHomePath = filepath.Join(UserDir, DefaultHomeDirName)
)

type Config struct {
	NodeBinary       string
	ChainName        string
	ChainID          string
	AccountAddress   string
	ValidatorAddress string
	WalletName       string
	Denom            string
	MinBalance       string
	GasAdjustment    string //option
	GasPrice         string //option

	KeyringPassphrase string

	AuditLogPath         string
	MetricsAddr          string //option
	CheckIntervalSeconds int    //option
	QueryTimeoutSeconds  int    //option
	TxTimeoutSeconds     int    //option
	SettleSeconds        int    //option
}

func LoadConfigs() *Config {
	//Default
	if Home == "" {
		Home = DefaultHomePath
	}
	if LocalConfig == "" {
		LocalConfig = filepath.Join(Home, DefaultConfigDirName, DefaultConfigName)
	}
	cfg := Config{}
	tools.InitTomlConfigs([]*tools.ConfigMap{
		{
			FilePath: LocalConfig,
			Pointer:  &cfg,
			LoadedCallBack: func(cm *tools.ConfigMap, err error) {
				if err != nil {
					panic(fmt.Errorf("config load error:%+v,path:%v", err, cm.FilePath))
				}
			},
		},
	})
	cfg.ApplyDefaults()
	if pass := os.Getenv(PassphraseEnv); pass != "" {
		cfg.KeyringPassphrase = pass
	}
	return &cfg
}

func (c *Config) ApplyDefaults() {
	if c.ChainName == "" {
		c.ChainName = "symphony"
	}
	if c.GasAdjustment == "" {
		c.GasAdjustment = "1.5"
	}
	if c.GasPrice == "" {
		c.GasPrice = "0.25"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":3030"
	}
	if c.CheckIntervalSeconds == 0 {
		c.CheckIntervalSeconds = 600
	}
	if c.QueryTimeoutSeconds == 0 {
		c.QueryTimeoutSeconds = 10
	}
	if c.TxTimeoutSeconds == 0 {
		c.TxTimeoutSeconds = 30
	}
	if c.SettleSeconds == 0 {
		c.SettleSeconds = 5
	}
}

func (c *Config) Validate() error {
	required := map[string]string{
		"NodeBinary":       c.NodeBinary,
		"ChainID":          c.ChainID,
		"AccountAddress":   c.AccountAddress,
		"ValidatorAddress": c.ValidatorAddress,
		"WalletName":       c.WalletName,
		"Denom":            c.Denom,
		"MinBalance":       c.MinBalance,
		"AuditLogPath":     c.AuditLogPath,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("config field %v is required", name)
		}
	}
	if _, err := c.MinBalanceAmount(); err != nil {
		return err
	}
	if _, err := decimal.NewFromString(c.GasPrice); err != nil {
		return fmt.Errorf("invalid GasPrice %q:%+v", c.GasPrice, err)
	}
	return nil
}

func (c *Config) MinBalanceAmount() (sdk.Int, error) {
	min, ok := sdk.NewIntFromString(c.MinBalance)
	if !ok || min.IsNegative() {
		return sdk.Int{}, fmt.Errorf("invalid MinBalance %q, expected a non-negative integer in the smallest unit", c.MinBalance)
	}
	return min, nil
}

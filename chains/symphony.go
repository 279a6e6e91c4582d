package chains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/config"
)

// SymphonyClient talks to the chain exclusively through the node CLI binary.
// The argument grammar and the bank-query JSON shape are a fixed external
// contract; nothing here holds a connection or any cross-call state.
type SymphonyClient struct {
	chainName        string
	chainID          string
	accountAddress   string
	validatorAddress string
	walletName       string
	gasAdjustment    string
	gasPrices        string
	passphrase       string
	queryTimeout     time.Duration
	txTimeout        time.Duration
	commander        Commander
	log              *logrus.Logger
}

func NewSymphonyClient(cfg *config.Config, commander Commander, log *logrus.Logger) (*SymphonyClient, error) {
	gasPrice, err := decimal.NewFromString(cfg.GasPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid gas price %q:%+v", cfg.GasPrice, err)
	}
	return &SymphonyClient{
		chainName:        cfg.ChainName,
		chainID:          cfg.ChainID,
		accountAddress:   cfg.AccountAddress,
		validatorAddress: cfg.ValidatorAddress,
		walletName:       cfg.WalletName,
		gasAdjustment:    cfg.GasAdjustment,
		gasPrices:        gasPrice.String() + cfg.Denom,
		passphrase:       cfg.KeyringPassphrase,
		queryTimeout:     time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
		txTimeout:        time.Duration(cfg.TxTimeoutSeconds) * time.Second,
		commander:        commander,
		log:              log,
	}, nil
}

func (c *SymphonyClient) ChainName() string {
	return c.chainName
}

type balancesResponse struct {
	Balances sdk.Coins `json:"balances"`
}

func (c *SymphonyClient) SpendableBalance(denom string) (sdk.Coin, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.queryTimeout)
	defer cancel()
	stdout, stderr, runErr := c.commander.Run(ctx,
		"query", "bank", "balances", c.accountAddress,
		"--chain-id", c.chainID,
		"-o", "json",
	)
	if runErr != nil {
		// A failed or timed-out query is an unknown balance even when a
		// stream still holds parseable JSON; uncertainty never acts.
		return sdk.Coin{}, fmt.Errorf("balance query error: %w", runErr)
	}
	res, err := pickBalances(stdout, stderr)
	if err != nil {
		return sdk.Coin{}, err
	}
	for _, coin := range res.Balances {
		if coin.Denom == denom {
			return coin, nil
		}
	}
	return sdk.Coin{}, fmt.Errorf("denom %v: %w", denom, ErrDenomNotFound)
}

// pickBalances inspects both streams and uses whichever one parses; the node
// CLI does not write its JSON to a consistent stream across versions.
func pickBalances(stdout, stderr []byte) (balancesResponse, error) {
	if len(stdout) == 0 && len(stderr) == 0 {
		return balancesResponse{}, ErrEmptyOutput
	}
	var res balancesResponse
	if len(stdout) > 0 && json.Unmarshal(stdout, &res) == nil {
		return res, nil
	}
	res = balancesResponse{}
	if len(stderr) > 0 && json.Unmarshal(stderr, &res) == nil {
		return res, nil
	}
	return balancesResponse{}, ErrMalformedOutput
}

func (c *SymphonyClient) WithdrawCommissionAndRewards() error {
	return c.runTx(
		"tx", "distribution", "withdraw-rewards", c.validatorAddress,
		"--from", c.walletName,
		"--commission",
	)
}

func (c *SymphonyClient) WithdrawAllDelegatorRewards() error {
	return c.runTx(
		"tx", "distribution", "withdraw-all-rewards",
		"--from", c.walletName,
	)
}

func (c *SymphonyClient) runTx(args ...string) error {
	args = append(args,
		"--chain-id", c.chainID,
		"--gas", "auto",
		"--gas-adjustment", c.gasAdjustment,
		"--gas-prices", c.gasPrices,
		"--yes",
	)
	ctx, cancel := context.WithTimeout(context.Background(), c.txTimeout)
	defer cancel()
	return c.commander.Interact(ctx, PassphrasePrompt, c.passphrase, args...)
}

package chains

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/config"
)

type interaction struct {
	prompt string
	reply  string
	args   []string
}

type fakeCommander struct {
	stdout       []byte
	stderr       []byte
	runErr       error
	lastRunArgs  []string
	interactErr  error
	interactions []interaction
}

func (f *fakeCommander) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	f.lastRunArgs = args
	return f.stdout, f.stderr, f.runErr
}

func (f *fakeCommander) Interact(ctx context.Context, prompt, reply string, args ...string) error {
	f.interactions = append(f.interactions, interaction{prompt: prompt, reply: reply, args: args})
	return f.interactErr
}

func testConfig() *config.Config {
	cfg := &config.Config{
		NodeBinary:        "symphonyd",
		ChainID:           "symphony-testnet-4",
		AccountAddress:    "symphony1q4fkr7nqu3m5kd6mcsvhtwsledcyp4y67d6fpt",
		ValidatorAddress:  "symphonyvaloper1q4fkr7nqu3m5kd6mcsvhtwsledcyp4y6ysl9cy",
		WalletName:        "mywallet",
		Denom:             "note",
		MinBalance:        "5000000",
		KeyringPassphrase: "hunter2",
		AuditLogPath:      "/tmp/audit.log",
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestClient(t *testing.T, commander Commander) *SymphonyClient {
	t.Helper()
	client, err := NewSymphonyClient(testConfig(), commander, logrus.New())
	require.NoError(t, err)
	return client
}

func TestSpendableBalance_StdoutJSON(t *testing.T) {
	commander := &fakeCommander{stdout: []byte(`{"balances":[{"denom":"note","amount":"141118075"}],"pagination":{"next_key":null,"total":"0"}}`)}
	client := newTestClient(t, commander)
	coin, err := client.SpendableBalance("note")
	require.NoError(t, err)
	require.Equal(t, "141118075", coin.Amount.String())
	require.Equal(t, "note", coin.Denom)
	require.Contains(t, commander.lastRunArgs, "balances")
	require.Contains(t, commander.lastRunArgs, "--chain-id")
	require.Contains(t, commander.lastRunArgs, "json")
}

func TestSpendableBalance_StderrJSON(t *testing.T) {
	// Some CLI versions write the JSON to stderr and noise to stdout.
	commander := &fakeCommander{
		stdout: []byte("gas estimate: 80000\n"),
		stderr: []byte(`{"balances":[{"denom":"note","amount":"4999999"}]}`),
	}
	client := newTestClient(t, commander)
	coin, err := client.SpendableBalance("note")
	require.NoError(t, err)
	require.Equal(t, "4999999", coin.Amount.String())
}

func TestSpendableBalance_EmptyOutput(t *testing.T) {
	client := newTestClient(t, &fakeCommander{})
	_, err := client.SpendableBalance("note")
	require.ErrorIs(t, err, ErrEmptyOutput)
}

func TestSpendableBalance_MalformedOutput(t *testing.T) {
	commander := &fakeCommander{stdout: []byte("Error: rpc error: code = Unavailable")}
	client := newTestClient(t, commander)
	_, err := client.SpendableBalance("note")
	require.ErrorIs(t, err, ErrMalformedOutput)
}

func TestSpendableBalance_MissingDenomIsUnknown(t *testing.T) {
	commander := &fakeCommander{stdout: []byte(`{"balances":[{"denom":"uosmo","amount":"999"}]}`)}
	client := newTestClient(t, commander)
	_, err := client.SpendableBalance("note")
	require.ErrorIs(t, err, ErrDenomNotFound)
}

func TestSpendableBalance_RunErrorWithoutOutput(t *testing.T) {
	commander := &fakeCommander{runErr: errors.New("executable file not found in $PATH")}
	client := newTestClient(t, commander)
	_, err := client.SpendableBalance("note")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestSpendableBalance_TimeoutDiscardsParseableOutput(t *testing.T) {
	// A killed query may still have flushed valid JSON before the deadline.
	// The run error wins: the balance is unknown, never the parsed coin.
	commander := &fakeCommander{
		stdout: []byte(`{"balances":[{"denom":"note","amount":"4999999"}]}`),
		runErr: fmt.Errorf("symphonyd query: %w", context.DeadlineExceeded),
	}
	client := newTestClient(t, commander)
	_, err := client.SpendableBalance("note")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSpendableBalance_ExitErrorDiscardsParseableOutput(t *testing.T) {
	commander := &fakeCommander{
		stdout: []byte(`{"balances":[{"denom":"note","amount":"4999999"}]}`),
		stderr: []byte("Error: post failed\n"),
		runErr: errors.New("exit status 1"),
	}
	client := newTestClient(t, commander)
	_, err := client.SpendableBalance("note")
	require.Error(t, err)
	require.Contains(t, err.Error(), "exit status 1")
}

func TestWithdrawCommissionAndRewardsArgs(t *testing.T) {
	commander := &fakeCommander{}
	client := newTestClient(t, commander)
	require.NoError(t, client.WithdrawCommissionAndRewards())
	require.Len(t, commander.interactions, 1)
	got := commander.interactions[0]
	require.Equal(t, PassphrasePrompt, got.prompt)
	require.Equal(t, "hunter2", got.reply)
	require.Contains(t, got.args, "withdraw-rewards")
	require.Contains(t, got.args, "symphonyvaloper1q4fkr7nqu3m5kd6mcsvhtwsledcyp4y6ysl9cy")
	require.Contains(t, got.args, "--commission")
	require.Contains(t, got.args, "--gas-adjustment")
	require.Contains(t, got.args, "1.5")
	require.Contains(t, got.args, "--gas-prices")
	require.Contains(t, got.args, "0.25note")
	require.Contains(t, got.args, "--yes")
}

func TestWithdrawAllDelegatorRewardsArgs(t *testing.T) {
	commander := &fakeCommander{}
	client := newTestClient(t, commander)
	require.NoError(t, client.WithdrawAllDelegatorRewards())
	require.Len(t, commander.interactions, 1)
	got := commander.interactions[0]
	require.Contains(t, got.args, "withdraw-all-rewards")
	require.NotContains(t, got.args, "--commission")
	require.Contains(t, got.args, "--from")
	require.Contains(t, got.args, "mywallet")
}

func TestSpendableBalance_ViaStubBinary(t *testing.T) {
	script := writeScript(t, fmt.Sprintf("echo '%s' >&2\n", `{"balances":[{"denom":"note","amount":"141118075"}]}`))
	log := logrus.New()
	cfg := testConfig()
	cfg.NodeBinary = script
	client, err := NewSymphonyClient(cfg, NewCommander(script, log), log)
	require.NoError(t, err)
	coin, err := client.SpendableBalance("note")
	require.NoError(t, err)
	require.Equal(t, "141118075", coin.Amount.String())
}

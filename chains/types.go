package chains

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PassphrasePrompt is the exact substring the node CLI prints before reading
// the keyring secret from stdin.
const PassphrasePrompt = "Enter keyring passphrase"

// Balance-unknown taxonomy. Any of these means the spendable balance could
// not be established this tick; callers must treat unknown as "do not act",
// never as zero.
var (
	ErrEmptyOutput     = errors.New("balance query produced no output on either stream")
	ErrMalformedOutput = errors.New("balance query output is not valid bank balances JSON")
	ErrDenomNotFound   = errors.New("no balance record for the monitored denom")
	ErrPromptNotSeen   = errors.New("passphrase prompt never appeared")
)

// BalanceQuery reads the live spendable balance of the monitored account.
type BalanceQuery interface {
	SpendableBalance(denom string) (sdk.Coin, error)
	ChainName() string
}

// TxRunner performs the two reward-withdrawal transactions. Each call is
// bounded by the client's tx timeout; a context.DeadlineExceeded in the
// returned error chain marks a timed-out step.
type TxRunner interface {
	WithdrawCommissionAndRewards() error
	WithdrawAllDelegatorRewards() error
}

// Commander runs one external node binary. Run captures both output streams
// because the CLI is inconsistent about where it writes JSON. Interact drives
// an interactive invocation: the reply is sent only after the prompt
// substring has been observed on either stream.
type Commander interface {
	Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
	Interact(ctx context.Context, prompt, reply string, args ...string) error
}

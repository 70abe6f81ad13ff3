package feerouter

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fee-router/pkg/data/marker"
	"github.com/code-payments/fee-router/pkg/metrics"
	"github.com/code-payments/fee-router/pkg/solana"
)

// Host is the execution environment the program runs in. It owns all balances
// and exposes single-recipient transfer primitives.
//
// The host must provide invocation-scoped all-or-nothing commit: when an
// invocation fails after its user transfer was applied, the host discards
// that transfer. The program performs no compensation of its own. The marker
// store given to NewProcessor must take part in the same transaction.
type Host interface {
	// Transfer debits from and credits to with exactly amount lamports
	Transfer(ctx context.Context, from, to solana.AccountMeta, amount uint64) error

	// TokenTransfer moves amount tokens of mint between two token accounts,
	// authorized by authority
	TokenTransfer(ctx context.Context, mint, from, to solana.AccountMeta, amount uint64, authority solana.AccountMeta) error

	// TokenAccountOwner returns the owner recorded in a token account
	TokenAccountOwner(ctx context.Context, account solana.AccountMeta) (ed25519.PublicKey, error)
}

// Result is the outcome of a successful invocation
type Result struct {
	Type InstructionType

	// Amounts moved by split instructions
	Amounts SplitAmounts

	// Whether Initialize found the program already initialized
	AlreadyInitialized bool
}

// Processor executes fee router instructions
type Processor struct {
	log     *logrus.Entry
	conf    *conf
	host    Host
	markers marker.Store
}

func NewProcessor(host Host, markers marker.Store, configProvider ConfigProvider) *Processor {
	return &Processor{
		log:     logrus.StandardLogger().WithField("type", "feerouter/processor"),
		conf:    configProvider(),
		host:    host,
		markers: markers,
	}
}

// Process implements the program entrypoint
func (p *Processor) Process(ctx context.Context, accounts []solana.AccountMeta, data []byte) error {
	_, err := p.Execute(ctx, accounts, data)
	return err
}

// Execute routes the instruction on its first byte and returns the outcome
func (p *Processor) Execute(ctx context.Context, accounts []solana.AccountMeta, data []byte) (result *Result, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Execute")
	defer tracer.End()

	instructionName := "empty"

	defer func() {
		log := p.log.WithFields(logrus.Fields{
			"method":      "Execute",
			"instruction": instructionName,
			"accounts":    len(accounts),
		})

		recordInvocationEvent(ctx, instructionName, result, err)

		if err != nil {
			recordFailedInvocation(ctx)
			tracer.OnError(err)
			log.WithError(err).Info("instruction failed")
			return
		}

		log.WithFields(logrus.Fields{
			"user_amount":         result.Amounts.UserAmount,
			"platform_fee":        result.Amounts.PlatformFee,
			"already_initialized": result.AlreadyInitialized,
		}).Debug("instruction succeeded")
	}()

	if len(data) == 0 {
		return nil, ErrInvalidInstruction
	}

	var instructionType InstructionType
	var offset int
	getInstructionType(data, &instructionType, &offset)
	payload := data[offset:]

	instructionName = instructionType.String()
	tracer.AddAttribute("instruction", instructionName)

	switch instructionType {
	case InstructionTypeSplit:
		return p.processSplit(ctx, accounts, payload)
	case InstructionTypeSolSplit:
		return p.processSolSplit(ctx, accounts, payload)
	case InstructionTypeInitialize:
		return p.processInitialize(ctx, accounts, payload)
	}
	return nil, ErrInvalidInstruction
}

func (p *Processor) processSplit(ctx context.Context, accounts []solana.AccountMeta, payload []byte) (*Result, error) {
	if err := splitAccountRoles.Validate(accounts); err != nil {
		return nil, err
	}

	var (
		source               = accounts[0]
		user                 = accounts[1]
		platformWallet       = accounts[2]
		mint                 = accounts[3]
		userTokenAccount     = accounts[4]
		platformTokenAccount = accounts[5]
	)

	amounts, err := p.parseAndCheckSplit(ctx, payload, platformWallet)
	if err != nil {
		return nil, err
	}

	if err := p.checkPlatformTokenAccount(ctx, platformTokenAccount); err != nil {
		return nil, err
	}

	err = p.host.TokenTransfer(ctx, mint, source, userTokenAccount, amounts.UserAmount, user)
	if err != nil {
		return nil, newTransferError(StageUser, err)
	}

	err = p.host.TokenTransfer(ctx, mint, source, platformTokenAccount, amounts.PlatformFee, user)
	if err != nil {
		return nil, newTransferError(StagePlatform, err)
	}

	recordSplitMetrics(ctx, amounts)

	return &Result{
		Type:    InstructionTypeSplit,
		Amounts: amounts,
	}, nil
}

func (p *Processor) processSolSplit(ctx context.Context, accounts []solana.AccountMeta, payload []byte) (*Result, error) {
	if err := solSplitAccountRoles.Validate(accounts); err != nil {
		return nil, err
	}

	var (
		source         = accounts[0]
		user           = accounts[1]
		platformWallet = accounts[2]
	)

	amounts, err := p.parseAndCheckSplit(ctx, payload, platformWallet)
	if err != nil {
		return nil, err
	}

	err = p.host.Transfer(ctx, source, user, amounts.UserAmount)
	if err != nil {
		return nil, newTransferError(StageUser, err)
	}

	err = p.host.Transfer(ctx, source, platformWallet, amounts.PlatformFee)
	if err != nil {
		return nil, newTransferError(StagePlatform, err)
	}

	recordSplitMetrics(ctx, amounts)

	return &Result{
		Type:    InstructionTypeSolSplit,
		Amounts: amounts,
	}, nil
}

func (p *Processor) processInitialize(ctx context.Context, accounts []solana.AccountMeta, payload []byte) (*Result, error) {
	if err := initializeAccountRoles.Validate(accounts); err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		return nil, ErrInvalidInstruction
	}

	routerState, _, err := GetRouterStateAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving router state address")
	}

	record, created, err := p.markers.Mark(ctx, base58.Encode(routerState))
	if err != nil {
		return nil, errors.Wrap(err, "error marking router state")
	}

	p.log.WithFields(logrus.Fields{
		"method":         "processInitialize",
		"router_state":   record.Address,
		"initialized_at": record.InitializedAt,
	}).Debug("fee router initialized")

	return &Result{
		Type:               InstructionTypeInitialize,
		AlreadyInitialized: !created,
	}, nil
}

// parseAndCheckSplit decodes the split amounts and applies the optional
// configured checks
func (p *Processor) parseAndCheckSplit(ctx context.Context, payload []byte, platformWallet solana.AccountMeta) (SplitAmounts, error) {
	amounts, err := parseSplitAmounts(payload)
	if err != nil {
		return SplitAmounts{}, err
	}

	pinned, err := p.getPinnedPlatformWallet(ctx)
	if err != nil {
		return SplitAmounts{}, err
	}
	if pinned != nil && !bytes.Equal(pinned, platformWallet.PublicKey) {
		return SplitAmounts{}, newPlatformWalletMismatch("platform_wallet")
	}

	if p.conf.enforceFeeRate.Get(ctx) && !amounts.MatchesFeeRate(PlatformFeeBps) {
		return SplitAmounts{}, ErrFeeMismatch
	}

	return amounts, nil
}

// checkPlatformTokenAccount verifies the token account receiving the platform
// fee is owned by the pinned platform wallet, if one is configured
func (p *Processor) checkPlatformTokenAccount(ctx context.Context, platformTokenAccount solana.AccountMeta) error {
	pinned, err := p.getPinnedPlatformWallet(ctx)
	if err != nil || pinned == nil {
		return err
	}

	owner, err := p.host.TokenAccountOwner(ctx, platformTokenAccount)
	if err != nil {
		return errors.Wrap(err, "error getting platform token account owner")
	}

	if !bytes.Equal(pinned, owner) {
		return newPlatformWalletMismatch("platform_token_account")
	}
	return nil
}

// getPinnedPlatformWallet returns the configured platform wallet, or nil when
// any wallet is accepted
func (p *Processor) getPinnedPlatformWallet(ctx context.Context) (ed25519.PublicKey, error) {
	pinned := p.conf.platformWallet.Get(ctx)
	if len(pinned) == 0 {
		return nil, nil
	}

	decoded, err := base58.Decode(pinned)
	if err != nil {
		return nil, errors.Wrap(err, "invalid platform wallet config")
	}
	return decoded, nil
}

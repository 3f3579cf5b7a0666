package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sopan-app/payment-contract/contracts"
	"github.com/sopan-app/payment-contract/deploy"
	"github.com/sopan-app/payment-contract/rpc/payment"
	"go.uber.org/zap"
)

const usage = `Usage: paymentctl [-config FILE] COMMAND [ARGS]

Commands:
  deploy   [-admin ADDR]                    deploy Payment contract and set its admin
  init     -admin ADDR                      set admin of the deployed contract
  pay      -to ADDR -token ADDR -amount N   pay N tokens from the wallet account
  withdraw -token ADDR -to ADDR             withdraw accumulated fees (admin only)
  admin                                     print contract admin
  quote    -amount N                        print fee and total debit of the payment

Settings are read from paymentctl.yml and PAYMENT_* environment variables.
`

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, *configPath, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, cmd string, args []string) error {
	if cmd == "quote" {
		return quote(args)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var f func(context.Context, *zap.Logger, *config, *remoteBlockchain, []string) error
	switch cmd {
	case "deploy":
		f = deployCmd
	case "init":
		f = initCmd
	case "pay":
		f = payCmd
	case "withdraw":
		f = withdrawCmd
	case "admin":
		f = adminCmd
	default:
		return fmt.Errorf("unknown command '%s'", cmd)
	}

	b, err := newRemoteBlockchain(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	return f(ctx, log, cfg, b, args)
}

func deployCmd(ctx context.Context, log *zap.Logger, cfg *config, b *remoteBlockchain, args []string) error {
	fs := flag.NewFlagSet("deploy", flag.ExitOnError)
	adminStr := fs.String("admin", "", "Address of the contract admin")
	_ = fs.Parse(args)

	var admin util.Uint160
	if *adminStr != "" {
		var err error
		admin, err = parseAddress(*adminStr)
		if err != nil {
			return fmt.Errorf("invalid admin: %w", err)
		}
	}

	ctr, err := contracts.ReadDir(cfg.Contract.Artifacts)
	if err != nil {
		return fmt.Errorf("read contract artifacts: %w", err)
	}

	h, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:     log,
		Blockchain: b.actor,
		Contract:   ctr,
		Admin:      admin,
	})
	if err != nil {
		return err
	}

	fmt.Println(address.Uint160ToString(h))

	return nil
}

func initCmd(_ context.Context, log *zap.Logger, cfg *config, b *remoteBlockchain, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	adminStr := fs.String("admin", "", "Address of the contract admin")
	_ = fs.Parse(args)

	admin, err := parseAddress(*adminStr)
	if err != nil {
		return fmt.Errorf("invalid admin: %w", err)
	}

	ctr, err := contractHash(cfg)
	if err != nil {
		return err
	}

	h, vub, err := payment.New(b.actor, ctr).Initialize(admin)
	appLog, err := b.await(h, vub, err)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	evs, err := payment.InitializedEventsFromApplicationLog(appLog)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		log.Info("contract initialized", zap.String("admin", address.Uint160ToString(ev.Admin)))
	}

	return nil
}

func payCmd(_ context.Context, log *zap.Logger, cfg *config, b *remoteBlockchain, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	toStr := fs.String("to", "", "Address of the payee")
	tokenStr := fs.String("token", "", "Address of the NEP-17 token contract")
	amountStr := fs.String("amount", "", "Payment amount in token's smallest units")
	_ = fs.Parse(args)

	to, err := parseAddress(*toStr)
	if err != nil {
		return fmt.Errorf("invalid payee: %w", err)
	}

	token, err := parseAddress(*tokenStr)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	amount, err := parseAmount(*amountStr)
	if err != nil {
		return err
	}

	ctr, err := contractHash(cfg)
	if err != nil {
		return err
	}

	act, err := b.tokenActor(token)
	if err != nil {
		return err
	}

	h, vub, err := payment.New(act, ctr).Pay(act.Sender(), to, token, amount)
	appLog, err := b.await(h, vub, err)
	if err != nil {
		return fmt.Errorf("pay: %w", err)
	}

	evs, err := payment.PaymentEventsFromApplicationLog(appLog)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		log.Info("payment done",
			zap.String("from", address.Uint160ToString(ev.From)),
			zap.String("to", address.Uint160ToString(ev.To)),
			zap.Stringer("amount", ev.Amount),
			zap.Stringer("fee", ev.Fee),
			zap.Stringer("tx", h))
	}

	return nil
}

func withdrawCmd(_ context.Context, log *zap.Logger, cfg *config, b *remoteBlockchain, args []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	tokenStr := fs.String("token", "", "Address of the NEP-17 token contract")
	toStr := fs.String("to", "", "Address of the fee receiver")
	_ = fs.Parse(args)

	token, err := parseAddress(*tokenStr)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	to, err := parseAddress(*toStr)
	if err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}

	ctr, err := contractHash(cfg)
	if err != nil {
		return err
	}

	h, vub, err := payment.New(b.actor, ctr).WithdrawFees(token, to)
	appLog, err := b.await(h, vub, err)
	if err != nil {
		return fmt.Errorf("withdraw fees: %w", err)
	}

	evs, err := payment.FeesWithdrawnEventsFromApplicationLog(appLog)
	if err != nil {
		return err
	}
	if len(evs) == 0 {
		log.Info("no fees accumulated")
	}
	for _, ev := range evs {
		log.Info("fees withdrawn",
			zap.String("to", address.Uint160ToString(ev.To)),
			zap.Stringer("amount", ev.Amount),
			zap.Stringer("tx", h))
	}

	return nil
}

func adminCmd(_ context.Context, _ *zap.Logger, cfg *config, b *remoteBlockchain, _ []string) error {
	ctr, err := contractHash(cfg)
	if err != nil {
		return err
	}

	admin, err := payment.NewReader(b.actor, ctr).GetAdmin()
	if err != nil {
		if errors.Is(err, payment.ErrUninitialized) {
			return errors.New("contract is not initialized yet")
		}
		return fmt.Errorf("get admin: %w", err)
	}

	fmt.Println(address.Uint160ToString(admin))

	return nil
}

// quote works offline, fee rule is fixed in the contract.
func quote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	amountStr := fs.String("amount", "", "Payment amount in token's smallest units")
	_ = fs.Parse(args)

	amount, err := parseAmount(*amountStr)
	if err != nil {
		return err
	}

	fee, err := payment.Fee(amount)
	if err != nil {
		return err
	}

	total, err := payment.TotalDebit(amount)
	if err != nil {
		return err
	}

	fmt.Printf("fee: %s\ntotal debit: %s\n", fee, total)

	return nil
}

func contractHash(cfg *config) (util.Uint160, error) {
	if cfg.Contract.Hash == "" {
		return util.Uint160{}, errors.New("missing Payment contract address, set contract.hash")
	}

	h, err := parseAddress(cfg.Contract.Hash)
	if err != nil {
		return h, fmt.Errorf("invalid Payment contract address: %w", err)
	}

	return h, nil
}

// parseAddress accepts both Neo address and LE hex of the script hash.
func parseAddress(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("empty address")
	}

	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("'%s' is neither Neo address nor script hash", s)
	}

	return h, nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount '%s'", s)
	}

	err := payment.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	return amount, nil
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config groups all paymentctl settings.
type config struct {
	RPC      rpcConfig      `mapstructure:"rpc"`
	Wallet   walletConfig   `mapstructure:"wallet"`
	Contract contractConfig `mapstructure:"contract"`
	Log      logConfig      `mapstructure:"log"`
}

type rpcConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type walletConfig struct {
	Path     string `mapstructure:"path"`
	Password string `mapstructure:"password"`
	// Address of the wallet account to sign with. Default account is used if empty.
	Account string `mapstructure:"account"`
}

type contractConfig struct {
	// Address of the deployed Payment contract. Not needed for deployment.
	Hash string `mapstructure:"hash"`
	// Artifacts root, compiled contract is read from <artifacts>/payment.
	Artifacts string `mapstructure:"artifacts"`
}

type logConfig struct {
	Level string `mapstructure:"level"`
}

// loadConfig reads configuration from the YAML file (optional) and
// environment. Environment overrides the file, e.g. PAYMENT_RPC_ENDPOINT sets
// rpc.endpoint.
func loadConfig(path string) (*config, error) {
	v := viper.New()

	v.SetDefault("rpc.endpoint", "http://localhost:30333")
	v.SetDefault("rpc.dial_timeout", 15*time.Second)
	v.SetDefault("rpc.request_timeout", 15*time.Second)
	v.SetDefault("wallet.path", "wallet.json")
	v.SetDefault("wallet.password", "")
	v.SetDefault("wallet.account", "")
	v.SetDefault("contract.hash", "")
	v.SetDefault("contract.artifacts", "contracts")
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("paymentctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PAYMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RPC.Endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	return &cfg, nil
}

// newLogger returns production zap logger writing messages of the configured
// level and above.
func newLogger(cfg logConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}

package main

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/node"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const greeting = `
  _  __     _                    _
 | |/ /__ _| | ____ _ _ __ ___ | |_
 | ' // _' | |/ / _' | '__/ _ \| __|
 | . \ (_| |   < (_| | | | (_) | |_
 |_|\_\__,_|_|\_\__,_|_|  \___/ \__|

Kakarot relayer %s: relays Ethereum transactions to Kakarot on Starknet.

`

const (
	configF               = "config"
	logLevelF             = "log-level"
	colourF               = "colour"
	httpF                 = "http"
	httpHostF             = "http-host"
	httpPortF             = "http-port"
	wsF                   = "ws"
	wsHostF               = "ws-host"
	wsPortF               = "ws-port"
	corsOriginsF          = "cors-origins"
	metricsF              = "metrics"
	metricsHostF          = "metrics-host"
	metricsPortF          = "metrics-port"
	dbPathF               = "db-path"
	starknetNodeF         = "starknet-node"
	indexNodeF            = "index-node"
	chainIDF              = "chain-id"
	kakarotAddressF       = "kakarot-address"
	accountClassHashF     = "account-class-hash"
	feeTokenF             = "fee-token"
	relayerAddressesF     = "relayer-addresses"
	relayerPrivateKeyF    = "relayer-private-key"
	balanceFloorF         = "balance-floor"
	pendingPollIntervalF  = "pending-poll-interval"
	balanceSweepIntervalF = "balance-sweep-interval"
	dispatchIntervalF     = "dispatch-interval"
	maxFeltsInCalldataF   = "max-felts-in-calldata"
	mempoolSizeF          = "mempool-size"
	blockGasLimitF        = "block-gas-limit"
	addressCacheSizeF     = "address-cache-size"

	defaultConfig               = ""
	defaultColour               = true
	defaultHTTP                 = true
	defaultHost                 = "localhost"
	defaultHTTPPort             = uint16(3030)
	defaultWS                   = false
	defaultWSPort               = uint16(3031)
	defaultMetrics              = false
	defaultMetricsPort          = uint16(9090)
	defaultDBPath               = "kakarot-relayer-db"
	defaultStarknetNode         = "http://localhost:5050"
	defaultIndexNode            = "http://localhost:8545"
	defaultChainID              = uint64(node.KakarotChainID)
	defaultFeeToken             = "0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"
	defaultBalanceFloor         = ""
	defaultPendingPollInterval  = 5 * time.Second
	defaultBalanceSweepInterval = time.Minute
	defaultDispatchInterval     = time.Second
	defaultMaxFeltsInCalldata   = uint64(22500)
	defaultMempoolSize          = 4096
	defaultBlockGasLimit        = uint64(7_000_000)
	defaultAddressCacheSize     = 1024

	configFlagUsage           = "The YAML configuration file."
	logLevelFlagUsage         = "Options: debug, info, warn, error."
	colourUsage               = "Use `--colour=false` command to disable colourized outputs (ANSI Escape Codes)."
	httpUsage                 = "Enables the JSON-RPC server on HTTP."
	httpHostUsage             = "The interface on which the HTTP RPC server will listen for requests."
	httpPortUsage             = "The port on which the HTTP server will listen for requests."
	wsUsage                   = "Enables the JSON-RPC server on websocket."
	wsHostUsage               = "The interface on which the websocket RPC server will listen for requests."
	wsPortUsage               = "The port on which the websocket server will listen for requests."
	corsOriginsUsage          = "Origins allowed to make cross-origin requests. CORS is disabled when empty."
	metricsUsage              = "Enables the Prometheus metrics endpoint on the default port."
	metricsHostUsage          = "The interface on which the Prometheus endpoint will listen for requests."
	metricsPortUsage          = "The port on which the Prometheus endpoint will listen for requests."
	dbPathUsage               = "Location of the database holding pending transactions."
	starknetNodeUsage         = "HTTP endpoint of the Starknet JSON-RPC node transactions are relayed to."
	indexNodeUsage            = "HTTP endpoint of the Ethereum-compatible index used to detect confirmed transactions."
	chainIDUsage              = "Chain id accepted in signed Ethereum transactions."
	kakarotAddressUsage       = "Address of the Kakarot core contract."
	accountClassHashUsage     = "Class hash of the Kakarot EOA account contract."
	feeTokenUsage             = "Address of the ERC20 token relayers pay fees with."
	relayerAddressesUsage     = "Comma separated Starknet addresses of the relayer accounts."
	relayerPrivateKeyUsage    = "Private key signing for every relayer account."
	balanceFloorUsage         = "Relayers whose fee token balance falls below this value are not used (decimal or hex)."
	pendingPollIntervalUsage  = "How often pending transactions are checked for confirmation."
	balanceSweepIntervalUsage = "How often relayer balances and nonces are refreshed."
	dispatchIntervalUsage     = "How often the mempool is polled for transactions to relay when idle."
	maxFeltsInCalldataUsage   = "Upper bound on the calldata length of a relayed transaction."
	mempoolSizeUsage          = "Maximum number of transactions held by the mempool."
	blockGasLimitUsage        = "Transactions with a gas limit above this value are rejected."
	addressCacheSizeUsage     = "Number of derived Starknet addresses kept in memory."
)

// NewCmd returns the root command. newNodeFn is invoked with the fully decoded config.
func NewCmd(newNodeFn node.NewRelayerNodeFn) *cobra.Command {
	relayerCmd := &cobra.Command{
		Use:     "kakarot-relayer [flags]",
		Short:   "Relays Ethereum transactions to Kakarot on Starknet.",
		Version: Version,
		Args:    cobra.NoArgs,
	}

	var cfgFile string
	defaultLogLevel := utils.INFO

	flags := relayerCmd.Flags()
	flags.StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	flags.Var(&defaultLogLevel, logLevelF, logLevelFlagUsage)
	flags.Bool(colourF, defaultColour, colourUsage)
	flags.Bool(httpF, defaultHTTP, httpUsage)
	flags.String(httpHostF, defaultHost, httpHostUsage)
	flags.Uint16(httpPortF, defaultHTTPPort, httpPortUsage)
	flags.Bool(wsF, defaultWS, wsUsage)
	flags.String(wsHostF, defaultHost, wsHostUsage)
	flags.Uint16(wsPortF, defaultWSPort, wsPortUsage)
	flags.StringSlice(corsOriginsF, nil, corsOriginsUsage)
	flags.Bool(metricsF, defaultMetrics, metricsUsage)
	flags.String(metricsHostF, defaultHost, metricsHostUsage)
	flags.Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)
	flags.String(dbPathF, defaultDBPath, dbPathUsage)
	flags.String(starknetNodeF, defaultStarknetNode, starknetNodeUsage)
	flags.String(indexNodeF, defaultIndexNode, indexNodeUsage)
	flags.Uint64(chainIDF, defaultChainID, chainIDUsage)
	flags.String(kakarotAddressF, "", kakarotAddressUsage)
	flags.String(accountClassHashF, "", accountClassHashUsage)
	flags.String(feeTokenF, defaultFeeToken, feeTokenUsage)
	flags.StringSlice(relayerAddressesF, nil, relayerAddressesUsage)
	flags.String(relayerPrivateKeyF, "", relayerPrivateKeyUsage)
	flags.String(balanceFloorF, defaultBalanceFloor, balanceFloorUsage)
	flags.Duration(pendingPollIntervalF, defaultPendingPollInterval, pendingPollIntervalUsage)
	flags.Duration(balanceSweepIntervalF, defaultBalanceSweepInterval, balanceSweepIntervalUsage)
	flags.Duration(dispatchIntervalF, defaultDispatchInterval, dispatchIntervalUsage)
	flags.Uint64(maxFeltsInCalldataF, defaultMaxFeltsInCalldata, maxFeltsInCalldataUsage)
	flags.Int(mempoolSizeF, defaultMempoolSize, mempoolSizeUsage)
	flags.Uint64(blockGasLimitF, defaultBlockGasLimit, blockGasLimitUsage)
	flags.Int(addressCacheSizeF, defaultAddressCacheSize, addressCacheSizeUsage)

	relayerCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, cfgFile)
		if err != nil {
			return err
		}

		if _, err = fmt.Fprintf(cmd.OutOrStdout(), greeting, Version); err != nil {
			return err
		}

		n, err := newNodeFn(cmd.Context(), cfg, Version)
		if err != nil {
			return err
		}

		n.Run(cmd.Context())
		return nil
	}

	relayerCmd.AddCommand(DBCmd(defaultDBPath))
	return relayerCmd
}

// loadConfig merges, from lowest to highest precedence, flag defaults, the config file,
// KAKAROT_ prefixed environment variables and explicitly set flags.
func loadConfig(cmd *cobra.Command, cfgFile string) (*node.Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("KAKAROT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := new(node.Config)
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
		// last: it may turn the input into nil
		decodeNumericHook,
	)))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	feltPtrType    = reflect.TypeOf(&felt.Felt{})
	uint256PtrType = reflect.TypeOf(&uint256.Int{})
)

// decodeNumericHook turns strings into felts and 256-bit integers. Empty strings leave the
// field nil.
func decodeNumericHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || (to != feltPtrType && to != uint256PtrType) {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	if s == "" {
		return nil, nil
	}

	if to == feltPtrType {
		return new(felt.Felt).SetString(s)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

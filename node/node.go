package node

import (
	"context"
	"fmt"
	"math/big"
	"net"
	"reflect"
	"runtime"
	"strconv"
	"time"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
	"github.com/NethermindEth/kakarot-relayer/clients/index"
	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/db/pebble"
	"github.com/NethermindEth/kakarot-relayer/evmstate"
	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/metrics"
	"github.com/NethermindEth/kakarot-relayer/pending"
	"github.com/NethermindEth/kakarot-relayer/relayer"
	"github.com/NethermindEth/kakarot-relayer/rpc"
	"github.com/NethermindEth/kakarot-relayer/service"
	"github.com/NethermindEth/kakarot-relayer/translator"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/NethermindEth/kakarot-relayer/validator"
	"github.com/holiman/uint256"
	"github.com/sourcegraph/conc"
)

const (
	// KakarotChainID is the EVM chain id of Kakarot mainnet, "KKRT" in ASCII.
	KakarotChainID = 1263227476

	dialTimeout = 30 * time.Second
)

// Config is the top-level relayer configuration.
type Config struct {
	LogLevel utils.LogLevel `mapstructure:"log-level"`
	Colour   bool           `mapstructure:"colour"`

	HTTP          bool     `mapstructure:"http"`
	HTTPHost      string   `mapstructure:"http-host"`
	HTTPPort      uint16   `mapstructure:"http-port"`
	Websocket     bool     `mapstructure:"ws"`
	WebsocketHost string   `mapstructure:"ws-host"`
	WebsocketPort uint16   `mapstructure:"ws-port"`
	CORSOrigins   []string `mapstructure:"cors-origins"`
	Metrics       bool     `mapstructure:"metrics"`
	MetricsHost   string   `mapstructure:"metrics-host"`
	MetricsPort   uint16   `mapstructure:"metrics-port"`

	DatabasePath string `mapstructure:"db-path" validate:"required"`
	StarknetNode string `mapstructure:"starknet-node" validate:"required,url"`
	IndexNode    string `mapstructure:"index-node" validate:"required,url"`

	ChainID           uint64       `mapstructure:"chain-id" validate:"required"`
	KakarotAddress    *felt.Felt   `mapstructure:"kakarot-address" validate:"required"`
	AccountClassHash  *felt.Felt   `mapstructure:"account-class-hash" validate:"required"`
	FeeToken          *felt.Felt   `mapstructure:"fee-token" validate:"required"`
	RelayerAddresses  []*felt.Felt `mapstructure:"relayer-addresses" validate:"required,min=1,dive,required"`
	RelayerPrivateKey *felt.Felt   `mapstructure:"relayer-private-key" validate:"required"`
	BalanceFloor      *uint256.Int `mapstructure:"balance-floor"`

	PendingPollInterval  time.Duration `mapstructure:"pending-poll-interval" validate:"gt=0"`
	BalanceSweepInterval time.Duration `mapstructure:"balance-sweep-interval" validate:"gt=0"`
	DispatchInterval     time.Duration `mapstructure:"dispatch-interval" validate:"gt=0"`

	MaxFeltsInCalldata uint64 `mapstructure:"max-felts-in-calldata" validate:"gt=0"`
	MempoolSize        int    `mapstructure:"mempool-size" validate:"gt=0"`
	BlockGasLimit      uint64 `mapstructure:"block-gas-limit" validate:"gt=0"`
	AddressCacheSize   int    `mapstructure:"address-cache-size" validate:"gt=0"`
}

type Node struct {
	cfg        *Config
	db         db.DB
	pool       *mempool.Pool
	relayers   *relayer.Relayers
	dispatcher *relayer.Dispatcher
	pending    *pending.Handler
	rpc        *jsonrpc.Server

	services []service.Service
	closers  []func()
	log      utils.Logger

	version string
}

// New validates the config, opens the database, dials the Starknet and index nodes and
// loads the relayer accounts.
func New(ctx context.Context, cfg *Config, version string) (*Node, error) { //nolint:gocyclo
	if err := validator.Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	metrics.Enabled = cfg.Metrics

	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return nil, err
	}

	database, err := pebble.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open DB: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	starknetClient, err := starknet.Dial(dialCtx, cfg.StarknetNode, log.Named("starknet"))
	if err != nil {
		return nil, closeOnError(database, err)
	}
	indexClient, err := index.Dial(dialCtx, cfg.IndexNode, log.Named("index"))
	if err != nil {
		starknetClient.Close()
		return nil, closeOnError(database, fmt.Errorf("dial index node: %w", err))
	}

	n, err := assemble(dialCtx, cfg, version, log, database, starknetClient, indexClient)
	if err != nil {
		starknetClient.Close()
		indexClient.Close()
		return nil, closeOnError(database, err)
	}
	n.closers = append(n.closers, starknetClient.Close, indexClient.Close)

	if err = n.listen(); err != nil {
		n.close()
		return nil, err
	}
	return n, nil
}

func closeOnError(database db.DB, err error) error {
	if closeErr := database.Close(); closeErr != nil {
		return fmt.Errorf("%w; close DB: %v", err, closeErr)
	}
	return err
}

// assemble wires the relay pipeline on top of the given collaborators.
func assemble(ctx context.Context, cfg *Config, version string, log utils.Logger, database db.DB,
	provider starknet.Provider, confirmed pending.ConfirmedIndex,
) (*Node, error) {
	chainID := new(big.Int).SetUint64(cfg.ChainID)

	deriver, err := eth2sn.NewAddressDeriver(cfg.KakarotAddress, cfg.AccountClassHash, cfg.AddressCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create address deriver: %w", err)
	}
	tr := translator.New(deriver, cfg.MaxFeltsInCalldata)

	txValidator := mempool.NewValidator(
		mempool.NewFormatFilter(chainID, cfg.BlockGasLimit),
		mempool.NewBlobFilter(),
		mempool.NewBudgetFilter(tr),
		mempool.NewAccountFilter(evmstate.New(provider, deriver, cfg.FeeToken)),
	)
	pool, err := mempool.New(database, txValidator, chainID, cfg.MempoolSize, log.Named("mempool"))
	if err != nil {
		return nil, fmt.Errorf("create mempool: %w", err)
	}

	key, err := crypto.NewPrivateKey(cfg.RelayerPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("load relayer key: %w", err)
	}
	relayers, err := relayer.New(ctx, &relayer.Config{
		Addresses:     cfg.RelayerAddresses,
		FeeToken:      cfg.FeeToken,
		BalanceFloor:  cfg.BalanceFloor,
		SweepInterval: cfg.BalanceSweepInterval,
	}, provider, tr, key, pool, log.Named("relayer"))
	if err != nil {
		return nil, fmt.Errorf("load relayers: %w", err)
	}

	dispatcher := relayer.NewDispatcher(pool, relayers, cfg.DispatchInterval, log.Named("dispatcher"))
	pendingHandler := pending.New(pool, confirmed, relayers, cfg.PendingPollInterval, log.Named("pending"))

	// to improve RPC throughput we double GOMAXPROCS
	maxGoroutines := 2 * runtime.GOMAXPROCS(0)
	jsonrpcServer := jsonrpc.NewServer(maxGoroutines, log).WithValidator(validator.Validator())
	rpcHandler := rpc.New(pool, relayers, chainID, log.Named("rpc"))
	if err = jsonrpcServer.RegisterMethods(rpcHandler.Methods()...); err != nil {
		return nil, err
	}

	if cfg.Metrics {
		relayers.WithListener(makeRelayerMetrics())
		pendingHandler.WithListener(makePendingMetrics())
		jsonrpcServer.WithListener(makeRPCMetrics())
		makeMempoolMetrics(pool)
	}

	return &Node{
		cfg:        cfg,
		db:         database,
		pool:       pool,
		relayers:   relayers,
		dispatcher: dispatcher,
		pending:    pendingHandler,
		rpc:        jsonrpcServer,
		services:   []service.Service{relayers, dispatcher, pendingHandler},
		log:        log,
		version:    version,
	}, nil
}

// listen opens the configured RPC and metrics listeners.
func (n *Node) listen() error {
	open := func(host string, port uint16) (net.Listener, error) {
		listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)))
		if err != nil {
			return nil, err
		}
		n.log.Infow("Listening", "addr", listener.Addr())
		return listener, nil
	}

	if n.cfg.HTTP {
		listener, err := open(n.cfg.HTTPHost, n.cfg.HTTPPort)
		if err != nil {
			return fmt.Errorf("listen on http port %d: %w", n.cfg.HTTPPort, err)
		}
		httpHandler := jsonrpc.NewHTTP(n.rpc, n.log)
		if n.cfg.Metrics {
			httpHandler.WithListener(makeEndpointMetrics("http"))
		}
		n.services = append(n.services, makeRPCOverHTTP(listener, httpHandler, n.cfg.CORSOrigins))
	}
	if n.cfg.Websocket {
		listener, err := open(n.cfg.WebsocketHost, n.cfg.WebsocketPort)
		if err != nil {
			return fmt.Errorf("listen on websocket port %d: %w", n.cfg.WebsocketPort, err)
		}
		wsHandler := jsonrpc.NewWebsocket(n.rpc, n.log)
		if n.cfg.Metrics {
			wsHandler.WithListener(makeEndpointMetrics("ws"))
		}
		n.services = append(n.services, makeRPCOverWebsocket(listener, wsHandler, n.cfg.CORSOrigins))
	}
	if n.cfg.Metrics {
		listener, err := open(n.cfg.MetricsHost, n.cfg.MetricsPort)
		if err != nil {
			return fmt.Errorf("listen on metrics port %d: %w", n.cfg.MetricsPort, err)
		}
		n.services = append(n.services, makeMetrics(listener))
	}
	return nil
}

func (n *Node) close() {
	for _, closer := range n.closers {
		closer()
	}
	if closeErr := n.db.Close(); closeErr != nil {
		n.log.Errorw("Error while closing the DB", "err", closeErr)
	}
}

// Run starts every service and blocks until ctx is cancelled or a service fails.
// Run will wait for all services to return before exiting.
func (n *Node) Run(ctx context.Context) {
	defer n.close()

	n.log.Infow("Starting Kakarot relayer", "version", n.version, "relayers", n.relayers.Len(),
		"pending", n.pool.Len())

	ctx, cancel := context.WithCancel(ctx)
	wg := conc.NewWaitGroup()
	for _, s := range n.services {
		wg.Go(func() {
			if err := s.Run(ctx); err != nil {
				n.log.Errorw("Service error", "name", reflect.TypeOf(s), "err", err)
				cancel()
			}
		})
	}
	defer wg.Wait()

	<-ctx.Done()
	cancel()
	n.log.Infow("Shutting down Kakarot relayer...")
}

func (n *Node) Config() Config {
	return *n.cfg
}

// RelayerNode is what the command line drives.
type RelayerNode interface {
	Run(ctx context.Context)
	Config() Config
}

type NewRelayerNodeFn func(ctx context.Context, cfg *Config, version string) (RelayerNode, error)

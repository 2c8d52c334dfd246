package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NethermindEth/kakarot-relayer/node"
	_ "go.uber.org/automaxprocs"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	newNode := func(ctx context.Context, cfg *node.Config, version string) (node.RelayerNode, error) {
		n, err := node.New(ctx, cfg, version)
		if err != nil {
			return nil, err
		}
		return n, nil
	}

	if err := NewCmd(newNode).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

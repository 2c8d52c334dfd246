package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/db/pebble"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func DBCmd(defaultDBPath string) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database related operations",
		Long:  `This command allows you to inspect the relayer database.`,
	}

	dbCmd.PersistentFlags().String(dbPathF, defaultDBPath, dbPathUsage)
	dbCmd.AddCommand(DBPendingCmd())
	return dbCmd
}

func DBPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List persisted pending transactions",
		Long:  `This subcommand lists accepted transactions not yet seen confirmed, in arrival order.`,
		Args:  cobra.NoArgs,
		RunE:  dbPending,
	}
}

func dbPending(cmd *cobra.Command, _ []string) error {
	dbPath, err := cmd.Flags().GetString(dbPathF)
	if err != nil {
		return err
	}

	database, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := mempool.LoadRecords(database)
	if err != nil {
		return fmt.Errorf("failed to load pending transactions: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Seq() < records[j].Seq()
	})

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Hash", "Sender", "Nonce", "Retries", "Origin", "Added"})
	table.SetAutoWrapText(false)
	for _, r := range records {
		table.Append([]string{
			r.Hash().Hex(),
			r.Sender.Hex(),
			strconv.FormatUint(r.Tx.Nonce(), 10),
			strconv.Itoa(int(r.Retries)),
			r.Origin.String(),
			r.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Total", strconv.Itoa(len(records))})
	table.Render()
	return nil
}

func openDB(path string) (db.DB, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("database path does not exist")
	}

	database, err := pebble.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	return database, nil
}

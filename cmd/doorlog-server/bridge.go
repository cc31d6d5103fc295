package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrandonDHaskell/doorlog/internal/bridge"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

func newBridgeCmd() *cobra.Command {
	var (
		addr    = "localhost:50051"
		timeout = 5 * time.Second
	)

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Talk to a running door bridge over gRPC",
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", addr, "bridge address")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "per-call timeout")

	// run dials, calls fn and prints its result as indented JSON.
	run := func(fn func(ctx context.Context, c *bridge.Client) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, err := bridge.Dial(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out, err := fn(ctx, c)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "state",
			Short: "Print the door state",
			RunE: run(func(ctx context.Context, c *bridge.Client) (any, error) {
				return c.State(ctx)
			}),
		},
		&cobra.Command{
			Use:   "open",
			Short: "Unlock the door",
			RunE: run(func(ctx context.Context, c *bridge.Client) (any, error) {
				return c.Open(ctx)
			}),
		},
		&cobra.Command{
			Use:   "close",
			Short: "Lock the door",
			RunE: run(func(ctx context.Context, c *bridge.Client) (any, error) {
				return c.CloseDoor(ctx)
			}),
		},
		&cobra.Command{
			Use:   "events",
			Short: "List recorded access events",
			RunE: run(func(ctx context.Context, c *bridge.Client) (any, error) {
				return c.ListEvents(ctx)
			}),
		},
		newRecordCmd(run),
	)
	return cmd
}

func newRecordCmd(run func(func(context.Context, *bridge.Client) (any, error)) func(*cobra.Command, []string) error) *cobra.Command {
	var in types.AccessEventInput

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one access event",
		RunE: run(func(ctx context.Context, c *bridge.Client) (any, error) {
			return c.RecordEvent(ctx, in)
		}),
	}
	cmd.Flags().StringVar(&in.Date, "date", "", "event date")
	cmd.Flags().StringVar(&in.Time, "time", "", "event time")
	cmd.Flags().StringVar(&in.AccessType, "type", "", "access type, e.g. Entrada or Salida")
	return cmd
}

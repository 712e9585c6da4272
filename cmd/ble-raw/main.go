// BLE frame dump - prints every GoCube notification, decoded, with the
// puzzle moves it translates to.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SeamusWaldron/cubie"
	"github.com/SeamusWaldron/cubie/internal/ble"
	"github.com/SeamusWaldron/cubie/internal/protocol"
)

func main() {
	duration := flag.Duration("duration", 2*time.Minute, "How long to listen")
	address := flag.String("address", "", "Connect to this device address instead of the first found")
	verbose := flag.Bool("v", false, "Log BLE activity")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Println("BLE Frame Dump")
	fmt.Println("==============")
	fmt.Println()

	client, err := ble.NewClient(logger)
	if err != nil {
		fmt.Printf("Failed to enable adapter: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := cubie.New(cubie.WithLogger(logger))
	client.SetMessageCallback(func(msg *protocol.Message) {
		fmt.Printf("[%s] %s\n", protocol.MessageTypeName(msg.Type), hex.EncodeToString(msg.Payload))

		_, payload, err := protocol.DecodeMessage(msg)
		if err != nil {
			fmt.Printf("      decode error: %v\n", err)
			return
		}
		fmt.Printf("      %s\n", payload)

		if msg.Type != protocol.MsgTypeRotation {
			return
		}
		rotations, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			return
		}
		moves := protocol.RotationsToMoves(rotations)
		if err := p.Apply(moves...); err != nil {
			fmt.Printf("      apply error: %v\n", err)
			return
		}
		fmt.Printf("      moves: %s  stage: %s\n", cubie.FormatMoves(moves), p.Progress().Stage.DisplayName())
	})

	fmt.Println("Scanning for GoCube...")
	if *address != "" {
		err = client.Connect(ctx, *address, 10*time.Second)
	} else {
		var results []ble.ScanResult
		results, err = client.Scan(ctx, 10*time.Second)
		if err == nil && len(results) == 0 {
			err = ble.ErrDeviceNotFound
		}
		if err == nil {
			fmt.Printf("Found: %s (%s)\n", results[0].Name, results[0].UUID)
			err = client.ConnectToResult(ctx, results[0])
		}
	}
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect()

	// The puzzle starts solved, so tell the cube to agree.
	if err := client.ResetSolved(); err != nil {
		fmt.Printf("Failed to reset cube state: %v\n", err)
	}

	fmt.Println("Connected! Rotate the cube to see data...")
	fmt.Println("Press Ctrl+C to exit")
	fmt.Println()

	select {
	case <-ctx.Done():
		fmt.Println("\nDisconnecting...")
	case <-time.After(*duration):
		fmt.Println("\nTimeout, disconnecting...")
	}
}

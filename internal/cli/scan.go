package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubie/internal/ble"
)

const scanTimeout = 5 * time.Second

// scanForGoCube scans for GoCube devices, retrying up to attempts times
// until at least one is found.
func scanForGoCube(ctx context.Context, attempts int) (*ble.Client, []ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := ble.NewClient(newLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		results, err := client.Scan(ctx, scanTimeout)
		if err != nil {
			fmt.Printf("Scan %d failed: %v\n", attempt, err)
			continue
		}
		if len(results) > 0 {
			fmt.Printf("Found: %s\n", results[0].Name)
			return client, results, nil
		}
		if ctx.Err() != nil {
			return client, nil, ctx.Err()
		}
		if attempt < attempts {
			fmt.Printf("Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	return client, nil, nil
}

// pickDevice prefers the last used device when it shows up in a scan.
func pickDevice(results []ble.ScanResult, lastID string) ble.ScanResult {
	for _, r := range results {
		if lastID != "" && r.UUID == lastID {
			return r
		}
	}
	return results[0]
}

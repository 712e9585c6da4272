package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubie/internal/recorder"
	"github.com/SeamusWaldron/cubie/internal/storage"
)

var statusScan bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, session and device information",
	Long: `Display the database location, recorded session counts, the active session
and the last GoCube used. With --scan, also look for nearby GoCube devices.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusScan, "scan", false, "Scan for GoCube devices")
}

func runStatus(cmd *cobra.Command, args []string) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	state := stateFile.State()

	fmt.Println(titleStyle.Render("cubie status"))
	fmt.Println()

	path, err := resolveDBPath(dbPath, state)
	if err != nil {
		return err
	}
	fmt.Printf("Database: %s\n", path)

	if db, err := openDB(stateFile); err == nil {
		defer db.Close()
		repo := storage.NewSessionRepository(db)
		if last, _ := repo.GetLast(); last != nil {
			fmt.Printf("Last session: %s\n", last.StartedAt.Local().Format("2006-01-02 15:04:05"))
		}
		total, _ := repo.Count()
		fmt.Printf("Total sessions: %d\n", total)
		if v, err := db.CurrentVersion(); err == nil {
			fmt.Printf("Schema version: %d\n", v)
		}
	} else {
		fmt.Println(errorStyle.Render(err.Error()))
	}
	fmt.Println()

	if state.ActiveSessionID != "" {
		fmt.Printf("Active session: %s\n", state.ActiveSessionID)
		fmt.Println(helpStyle.Render("  (Use 'cubie session move' to continue or 'cubie session end' to finish)"))
	} else {
		fmt.Println("No active session")
	}
	fmt.Println()

	if state.LastDeviceID != "" {
		fmt.Printf("Last device: %s (%s)\n", state.LastDeviceName, state.LastDeviceID)
	} else {
		fmt.Println("No device history")
	}

	if !statusScan {
		return nil
	}
	fmt.Println()

	_, results, err := scanForGoCube(cmd.Context(), 1)
	if err != nil {
		fmt.Printf("Scan error: %v\n", err)
		return nil
	}
	if len(results) == 0 {
		fmt.Println("No GoCube devices found")
		fmt.Println()
		fmt.Println("Tips:")
		fmt.Println("  - Ensure your GoCube is powered on")
		fmt.Println("  - Move the cube to wake it up")
		fmt.Println("  - Check that Bluetooth is enabled")
		return nil
	}
	fmt.Printf("Found %d device(s):\n", len(results))
	for _, r := range results {
		fmt.Printf("  - %s (UUID: %s, RSSI: %d)\n", r.Name, r.UUID, r.RSSI)
	}
	return nil
}

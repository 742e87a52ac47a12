package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/docql/docql/internal/config"
	"github.com/docql/docql/internal/profiles"
)

const defaultProfileDir = "profiles"

type Application struct {
	reader         *bufio.Reader
	printBanner    func()
	profileManager *profiles.Manager
	service        *Service
}

func NewApplication(r io.Reader, printBanner func()) *Application {
	if r == nil {
		r = os.Stdin
	}

	var reader *bufio.Reader
	if br, ok := r.(*bufio.Reader); ok {
		reader = br
	} else {
		reader = bufio.NewReader(r)
	}

	return &Application{
		reader:         reader,
		printBanner:    printBanner,
		profileManager: profiles.NewManager(defaultProfileDir),
		service:        NewService(),
	}
}

func (a *Application) RunInteractive() error {
	if a.printBanner != nil {
		a.printBanner()
	}
	fmt.Println("Interactive mode is ready. Press Ctrl+C or choose option 5 to exit.")

	for {
		fmt.Println()
		fmt.Println("Select an operation:")
		fmt.Println("  1) List tables")
		fmt.Println("  2) Inspect a table's inferred schema")
		fmt.Println("  3) Warm the schema cache")
		fmt.Println("  4) Save current connection as a profile")
		fmt.Println("  5) Exit")

		fmt.Print("\nChoice: ")
		choice, err := a.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				fmt.Println("Exiting interactive mode.")
				return nil
			}
			return err
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "1", "tables":
			a.report(a.handleListTables())
		case "2", "inspect":
			a.report(a.handleInspect())
		case "3", "warm":
			a.report(a.handleWarm())
		case "4", "save":
			a.report(a.handleSaveProfile())
		case "5", "exit", "quit", "q":
			fmt.Println("Goodbye.")
			return nil
		default:
			fmt.Println("Unrecognized choice.")
		}
	}
}

func (a *Application) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, io.EOF) {
		return
	}
	fmt.Printf("Operation failed: %v\n", err)
}

func (a *Application) handleListTables() error {
	cfg, err := a.selectConfig()
	if err != nil {
		return err
	}
	return a.service.ListTables(cfg)
}

func (a *Application) handleInspect() error {
	cfg, err := a.selectConfig()
	if err != nil {
		return err
	}

	fmt.Print("Table name: ")
	table, err := a.readLine()
	if err != nil {
		return err
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return fmt.Errorf("table name is required")
	}

	return a.service.InspectTable(cfg, table, false)
}

func (a *Application) handleWarm() error {
	cfg, err := a.selectConfig()
	if err != nil {
		return err
	}
	return a.service.WarmCache(cfg, false)
}

func (a *Application) handleSaveProfile() error {
	cfg, err := a.selectConfig()
	if err != nil {
		return err
	}

	fmt.Print("Profile name: ")
	alias, err := a.readLine()
	if err != nil {
		return err
	}

	profile, err := a.profileManager.Save(strings.TrimSpace(alias), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Saved profile %s (%s).\n", profile.Name, profile.Path)
	return nil
}

// selectConfig offers saved profiles first and falls back to a config file
// path typed by hand.
func (a *Application) selectConfig() (*config.Config, error) {
	saved, err := a.profileManager.List()
	if err != nil {
		return nil, err
	}

	if len(saved) > 0 {
		fmt.Println()
		fmt.Println("Saved profiles:")
		for i, profile := range saved {
			fmt.Printf("  %d) %s (database: %s)\n", i+1, profile.Name, profile.Database)
		}
		fmt.Println("  0) Enter a config file path instead")

		fmt.Print("\nProfile: ")
		input, err := a.readLine()
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(input)
		if n, convErr := strconv.Atoi(input); convErr == nil && n >= 1 && n <= len(saved) {
			return a.profileManager.Load(saved[n-1].Name)
		}
		if input != "" && input != "0" {
			return a.profileManager.Load(input)
		}
	}

	fmt.Print("Config file path: ")
	path, err := a.readLine()
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	return config.LoadConfig(path)
}

func (a *Application) readLine() (string, error) {
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

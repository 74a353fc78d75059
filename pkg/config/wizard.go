package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by RunWizard when stdin is not a terminal.
var ErrNotInteractive = errors.New("config wizard needs an interactive terminal")

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
}

// RunWizard asks for the connection settings interactively, starting from
// cfg, and returns the completed config. Nothing is saved.
func RunWizard(cfg Config) (Config, error) {
	if !isTerminal() {
		return cfg, ErrNotInteractive
	}

	fmt.Println("kbt setup")
	fmt.Println("─────────")

	source := string(cfg.Source)
	if source == "" {
		source = string(SourceRPC)
	}
	if err := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should kbt read the board from?").
				Options(
					huh.NewOption("Kanboard JSON-RPC API", string(SourceRPC)),
					huh.NewOption("Kanboard SQLite database (read-only)", string(SourceSQLite)),
					huh.NewOption("JSON snapshot file", string(SourceFile)),
				).
				Value(&source),
		),
	).Run(); err != nil {
		return cfg, err
	}
	cfg.Source = SourceKind(source)

	projectID := ""
	if cfg.ProjectID > 0 {
		projectID = strconv.FormatInt(cfg.ProjectID, 10)
	}
	openOnly := cfg.StatusID == StatusOpen

	var fields []huh.Field
	switch cfg.Source {
	case SourceRPC:
		fields = append(fields,
			huh.NewInput().
				Title("JSON-RPC URL").
				Placeholder("https://kanboard.example.com/jsonrpc.php").
				Value(&cfg.URL).
				Validate(required("url")),
			huh.NewInput().
				Title("Username").
				Description("\"jsonrpc\" with the API token, or a real user with their password").
				Value(&cfg.Username),
			huh.NewInput().
				Title("Password or API token").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Password),
		)
	case SourceSQLite:
		fields = append(fields,
			huh.NewInput().
				Title("Database path").
				Placeholder("/var/www/kanboard/data/db.sqlite").
				Value(&cfg.Database).
				Validate(required("database")),
		)
	case SourceFile:
		fields = append(fields,
			huh.NewInput().
				Title("Snapshot file").
				Placeholder("./board.json").
				Value(&cfg.Snapshot).
				Validate(required("snapshot")),
		)
	}
	if cfg.Source != SourceFile {
		fields = append(fields,
			huh.NewInput().
				Title("Project id").
				Value(&projectID).
				Validate(positiveInt),
		)
	}
	fields = append(fields,
		huh.NewConfirm().
			Title("Show open tasks only?").
			Value(&openOnly),
	)

	if err := newForm(huh.NewGroup(fields...)).Run(); err != nil {
		return cfg, err
	}

	if projectID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(projectID), 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("project id: %w", err)
		}
		cfg.ProjectID = id
	}
	cfg.StatusID = StatusClosed
	if openOnly {
		cfg.StatusID = StatusOpen
	}
	cfg.CAFile = expandHome(cfg.CAFile)
	cfg.Database = expandHome(cfg.Database)
	cfg.Snapshot = expandHome(cfg.Snapshot)

	return cfg, cfg.Validate()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func positiveInt(s string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

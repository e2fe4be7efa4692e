package main

import (
	"fmt"
	"os"

	"github.com/andrescamacho/transferproc/internal/adapters/cli"
	"github.com/andrescamacho/transferproc/internal/adapters/persistence"
	"github.com/andrescamacho/transferproc/internal/application/command"
	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/infrastructure/config"
	"github.com/andrescamacho/transferproc/internal/infrastructure/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "transferctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoadConfig("")

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close(db)

	store := persistence.NewTransferProcessRepository(db)
	clock := shared.NewRealClock()

	runner := command.NewRunner()
	if err := transferapp.RegisterCommands(runner, store, clock); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	root := cli.NewRootCommand(cli.Deps{
		Store:  store,
		Runner: runner,
		Clock:  clock,
	})

	return root.Execute()
}

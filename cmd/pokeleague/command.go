package main

import (
	"github.com/pokeleague/backend/internal/entity"
	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "pokeleague"
	app.Usage = "Manage trainers, pokemons, battles and the league ranking"
	app.Before = s.load
	app.After = s.close
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path of the TOML config file",
			EnvVars: []string{"POKELEAGUE_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "user",
			Usage: "User id the commands run as",
			Value: "admin",
		},
		&cli.StringSliceFlag{
			Name:  "role",
			Usage: "Roles of the user",
			Value: cli.NewStringSlice(entity.RoleAdmin),
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Create or update the trainer, pokemon and battle tables.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Keep the ranking cache warm until the process is interrupted.`,
		},
		s.trainerCommand(),
		s.pokemonCommand(),
		s.assignmentCommand(),
		s.battleCommand(),
		s.rankingCommand(),
	}

	s.app = app
}

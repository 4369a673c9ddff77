package main

import (
	"github.com/pokeleague/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) trainerCommand() *cli.Command {
	return &cli.Command{
		Name:     "trainer",
		Usage:    "Manage trainers",
		Category: "League",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a trainer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.Int64Flag{Name: "points"},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.trainerDomain.Create(s.ctx, &model.CreateTrainerRequest{
						Name:   cctx.String("name"),
						Points: cctx.Int64("points"),
					}))
				},
			},
			{
				Name:  "register",
				Usage: "Register a trainer for the current user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.trainerDomain.Register(s.ctx, &model.RegisterTrainerRequest{
						Name: cctx.String("name"),
					}))
				},
			},
			{
				Name:      "get",
				Usage:     "Show a trainer with its pokemons and rank",
				ArgsUsage: "<trainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.trainerDomain.Get(s.ctx, &model.GetTrainerRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:  "list",
				Usage: "List all trainers",
				Action: func(*cli.Context) error {
					return s.print(s.trainerDomain.GetList(s.ctx, &model.GetTrainersRequest{}))
				},
			},
			{
				Name:      "update",
				Usage:     "Rename a trainer",
				ArgsUsage: "<trainerID>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.trainerDomain.Update(s.ctx, &model.UpdateTrainerRequest{
						ID:   cctx.Args().First(),
						Name: cctx.String("name"),
					}))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a trainer, its battles and release its pokemons",
				ArgsUsage: "<trainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.trainerDomain.Delete(s.ctx, &model.DeleteTrainerRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
		},
	}
}

package main

import (
	"github.com/pokeleague/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) assignmentCommand() *cli.Command {
	return &cli.Command{
		Name:     "assignment",
		Usage:    "Assign, release and transfer pokemons",
		Category: "League",
		Subcommands: []*cli.Command{
			{
				Name:      "assign",
				Usage:     "Give an available pokemon to a trainer",
				ArgsUsage: "<pokemonID> <trainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.assignmentDomain.Assign(s.ctx, &model.AssignPokemonRequest{
						PokemonID: cctx.Args().Get(0),
						TrainerID: cctx.Args().Get(1),
					}))
				},
			},
			{
				Name:      "release",
				Usage:     "Make a pokemon available again",
				ArgsUsage: "<pokemonID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.assignmentDomain.Release(s.ctx, &model.ReleasePokemonRequest{
						PokemonID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:      "transfer",
				Usage:     "Move a pokemon to another trainer",
				ArgsUsage: "<pokemonID> <toTrainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.assignmentDomain.Transfer(s.ctx, &model.TransferPokemonRequest{
						PokemonID:   cctx.Args().Get(0),
						ToTrainerID: cctx.Args().Get(1),
					}))
				},
			},
			{
				Name:  "available",
				Usage: "List pokemons without a trainer",
				Action: func(*cli.Context) error {
					return s.print(s.assignmentDomain.GetAvailable(s.ctx, &model.GetAvailablePokemonsRequest{}))
				},
			},
			{
				Name:      "owned",
				Usage:     "List the pokemons of a trainer",
				ArgsUsage: "<trainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.assignmentDomain.GetTrainerPokemons(s.ctx, &model.GetTrainerPokemonsRequest{
						TrainerID: cctx.Args().First(),
					}))
				},
			},
		},
	}
}

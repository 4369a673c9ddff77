package main

import (
	"encoding/json"

	"github.com/pokeleague/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func pokemonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "type"},
		&cli.IntFlag{Name: "level"},
		&cli.StringFlag{Name: "stats", Usage: `JSON object, e.g. {"hp":50,"attack":40}`},
	}
}

func statsFlag(cctx *cli.Context) json.RawMessage {
	if cctx.String("stats") == "" {
		return nil
	}

	return json.RawMessage(cctx.String("stats"))
}

func (s *srv) pokemonCommand() *cli.Command {
	return &cli.Command{
		Name:     "pokemon",
		Usage:    "Manage pokemons",
		Category: "League",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a pokemon",
				Flags: append(pokemonFlags(), &cli.StringFlag{Name: "trainer", Usage: "Owner of the new pokemon"}),
				Action: func(cctx *cli.Context) error {
					return s.print(s.pokemonDomain.Create(s.ctx, &model.CreatePokemonRequest{
						Name:      cctx.String("name"),
						Type:      cctx.String("type"),
						Level:     cctx.Int("level"),
						Stats:     statsFlag(cctx),
						TrainerID: cctx.String("trainer"),
					}))
				},
			},
			{
				Name:      "get",
				Usage:     "Show a pokemon and its strength",
				ArgsUsage: "<pokemonID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.pokemonDomain.Get(s.ctx, &model.GetPokemonRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:  "list",
				Usage: "List all pokemons",
				Action: func(*cli.Context) error {
					return s.print(s.pokemonDomain.GetList(s.ctx, &model.GetPokemonsRequest{}))
				},
			},
			{
				Name:      "update",
				Usage:     "Update a pokemon",
				ArgsUsage: "<pokemonID>",
				Flags:     pokemonFlags(),
				Action: func(cctx *cli.Context) error {
					return s.print(s.pokemonDomain.Update(s.ctx, &model.UpdatePokemonRequest{
						ID:    cctx.Args().First(),
						Name:  cctx.String("name"),
						Type:  cctx.String("type"),
						Level: cctx.Int("level"),
						Stats: statsFlag(cctx),
					}))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a pokemon",
				ArgsUsage: "<pokemonID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.pokemonDomain.Delete(s.ctx, &model.DeletePokemonRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
		},
	}
}

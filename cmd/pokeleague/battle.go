package main

import (
	"time"

	"github.com/pokeleague/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) battleCommand() *cli.Command {
	return &cli.Command{
		Name:     "battle",
		Usage:    "Fight, simulate and browse battles",
		Category: "League",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Fight a battle and award points to the winner",
				ArgsUsage: "<trainer1ID> <trainer2ID>",
				Flags: []cli.Flag{
					&cli.TimestampFlag{
						Name:     "date",
						Usage:    "Date of the battle, e.g. 2026-10-19T15:04:05, now if omitted",
						Layout:   "2006-01-02T15:04:05",
						Timezone: time.UTC,
					},
				},
				Action: func(cctx *cli.Context) error {
					req := &model.CreateBattleRequest{
						Trainer1ID: cctx.Args().Get(0),
						Trainer2ID: cctx.Args().Get(1),
					}

					if date := cctx.Timestamp("date"); date != nil {
						req.Date = *date
					}

					return s.print(s.battleDomain.Create(s.ctx, req))
				},
			},
			{
				Name:      "simulate",
				Usage:     "Predict a battle without recording it",
				ArgsUsage: "<trainer1ID> <trainer2ID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.battleDomain.Simulate(s.ctx, &model.SimulateBattleRequest{
						Trainer1ID: cctx.Args().Get(0),
						Trainer2ID: cctx.Args().Get(1),
					}))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a battle and take back its points",
				ArgsUsage: "<battleID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.battleDomain.Delete(s.ctx, &model.DeleteBattleRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:      "get",
				Usage:     "Show a battle",
				ArgsUsage: "<battleID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.battleDomain.Get(s.ctx, &model.GetBattleRequest{
						ID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:  "list",
				Usage: "List battles, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit"},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.battleDomain.GetList(s.ctx, &model.GetBattlesRequest{
						Limit: cctx.Int("limit"),
					}))
				},
			},
			{
				Name:  "recent",
				Usage: "List the latest battles, optionally of one trainer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "trainer"},
					&cli.IntFlag{Name: "limit"},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.battleDomain.GetRecentBattles(s.ctx, &model.GetRecentBattlesRequest{
						TrainerID: cctx.String("trainer"),
						Limit:     cctx.Int("limit"),
					}))
				},
			},
		},
	}
}

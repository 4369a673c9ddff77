package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) rankingCommand() *cli.Command {
	return &cli.Command{
		Name:     "ranking",
		Usage:    "Read and adjust the league ranking",
		Category: "League",
		Subcommands: []*cli.Command{
			{
				Name:  "full",
				Usage: "Show every trainer by points",
				Action: func(*cli.Context) error {
					return s.print(s.rankingDomain.GetFullRanking(s.ctx, &model.GetFullRankingRequest{}))
				},
			},
			{
				Name:  "top",
				Usage: "Show the best trainers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: 10},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.rankingDomain.GetTopTrainers(s.ctx, &model.GetTopTrainersRequest{
						Count: cctx.Int("count"),
					}))
				},
			},
			{
				Name:      "rank",
				Usage:     "Show the rank of a trainer",
				ArgsUsage: "<trainerID>",
				Action: func(cctx *cli.Context) error {
					return s.print(s.rankingDomain.GetTrainerRank(s.ctx, &model.GetTrainerRankRequest{
						TrainerID: cctx.Args().First(),
					}))
				},
			},
			{
				Name:      "similar",
				Usage:     "Show trainers with close points",
				ArgsUsage: "<trainerID>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "range"},
				},
				Action: func(cctx *cli.Context) error {
					pointsRange := xcontext.Configs(s.ctx).Ranking.SimilarRange
					if cctx.IsSet("range") {
						pointsRange = cctx.Int64("range")
					}

					return s.print(s.rankingDomain.GetSimilarTrainers(s.ctx, &model.GetSimilarTrainersRequest{
						TrainerID: cctx.Args().First(),
						Range:     pointsRange,
					}))
				},
			},
			{
				Name:      "points",
				Usage:     "Add points to a trainer, a negative delta removes them",
				ArgsUsage: "<trainerID>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "delta", Required: true},
				},
				Action: func(cctx *cli.Context) error {
					return s.print(s.rankingDomain.UpdateTrainerPoints(s.ctx, &model.UpdateTrainerPointsRequest{
						TrainerID: cctx.Args().First(),
						Delta:     cctx.Int64("delta"),
					}))
				},
			},
			{
				Name:  "monthly",
				Usage: "Show the most active and winning trainers of the current month",
				Action: func(*cli.Context) error {
					return s.print(s.rankingDomain.GetMonthlyStats(s.ctx, &model.GetMonthlyStatsRequest{}))
				},
			},
			{
				Name:      "changes",
				Usage:     "Compare two saved rankings",
				ArgsUsage: "<oldRanking.json> <newRanking.json>",
				Action: func(cctx *cli.Context) error {
					oldRanking, err := readRanking(cctx.Args().Get(0))
					if err != nil {
						return err
					}

					newRanking, err := readRanking(cctx.Args().Get(1))
					if err != nil {
						return err
					}

					return s.print(s.rankingDomain.CalculateRankChanges(s.ctx, &model.CalculateRankChangesRequest{
						OldRanking: oldRanking,
						NewRanking: newRanking,
					}))
				},
			},
		},
	}
}

// readRanking accepts the output of "ranking full" or a bare list of trainers.
func readRanking(path string) ([]model.RankedTrainer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var resp model.GetFullRankingResponse
	if err := json.Unmarshal(b, &resp); err == nil && resp.Trainers != nil {
		return resp.Trainers, nil
	}

	var trainers []model.RankedTrainer
	if err := json.Unmarshal(b, &trainers); err != nil {
		return nil, fmt.Errorf("cannot read ranking %s: %w", path, err)
	}

	return trainers, nil
}

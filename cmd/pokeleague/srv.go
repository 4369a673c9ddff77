package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pokeleague/backend/config"
	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain"
	"github.com/pokeleague/backend/internal/domain/battleutil"
	"github.com/pokeleague/backend/internal/domain/ranking"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/kafka"
	"github.com/pokeleague/backend/pkg/logger"
	"github.com/pokeleague/backend/pkg/pubsub"
	"github.com/pokeleague/backend/pkg/xcache"
	"github.com/pokeleague/backend/pkg/xcontext"
	"github.com/pokeleague/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	cache     xcache.Cache
	publisher pubsub.Publisher
	closers   []func() error

	trainerRepo repository.TrainerRepository
	pokemonRepo repository.PokemonRepository
	battleRepo  repository.BattleRepository

	rankingCache *ranking.Cache

	trainerDomain    domain.TrainerDomain
	pokemonDomain    domain.PokemonDomain
	assignmentDomain domain.AssignmentDomain
	battleDomain     domain.BattleDomain
	rankingDomain    domain.RankingDomain
}

// load prepares everything a command needs. It is the Before hook of the app.
func (s *srv) load(cctx *cli.Context) error {
	s.ctx = cctx.Context
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadLogger()
	s.ctx = xcontext.WithClock(s.ctx, clockwork.NewRealClock())

	db, err := s.newDatabase()
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithDB(s.ctx, db)

	s.loadCache()
	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	if err := s.loadDomains(); err != nil {
		return err
	}

	s.loadCaller(cctx)
	return nil
}

func (s *srv) close(*cli.Context) error {
	var errs []error
	for _, closer := range s.closers {
		errs = append(errs, closer())
	}
	s.closers = nil

	return errors.Join(errs...)
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	s.closers = append(s.closers, sqlDB.Close)
	return db, nil
}

func (s *srv) migrateDB() error {
	return entity.MigrateTable(s.ctx)
}

// loadCache uses redis when it is reachable, otherwise the ranking cache is kept in memory for
// the lifetime of the command.
func (s *srv) loadCache() {
	if xcontext.Configs(s.ctx).Redis.Addr != "" {
		redisClient, err := xredis.NewClient(s.ctx)
		if err == nil {
			s.closers = append(s.closers, redisClient.Close)
			s.cache = xcache.NewRedisCache(redisClient)
			return
		}

		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, use memory cache instead: %v", err)
	}

	s.cache = xcache.NewMemoryCache(xcontext.Clock(s.ctx))
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		s.publisher = pubsub.NewNopPublisher()
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, strings.Split(cfg.Addr, ","))
	if err != nil {
		return err
	}

	s.closers = append(s.closers, func() error { return publisher.Stop(s.ctx) })
	s.publisher = publisher
	return nil
}

func (s *srv) loadRepos() {
	s.trainerRepo = repository.NewTrainerRepository()
	s.pokemonRepo = repository.NewPokemonRepository()
	s.battleRepo = repository.NewBattleRepository()
}

func (s *srv) loadDomains() error {
	random, err := battleutil.NewRandomSource()
	if err != nil {
		return err
	}

	roleVerifier := common.NewRoleVerifier()
	s.rankingCache = ranking.NewCache(s.cache)

	s.trainerDomain = domain.NewTrainerDomain(s.trainerRepo, s.pokemonRepo, s.battleRepo, s.rankingCache, roleVerifier)
	s.pokemonDomain = domain.NewPokemonDomain(s.trainerRepo, s.pokemonRepo, roleVerifier)
	s.assignmentDomain = domain.NewAssignmentDomain(s.trainerRepo, s.pokemonRepo, roleVerifier)
	s.battleDomain = domain.NewBattleDomain(s.trainerRepo, s.pokemonRepo, s.battleRepo, s.rankingCache,
		random, s.publisher, roleVerifier)
	s.rankingDomain = domain.NewRankingDomain(s.trainerRepo, s.battleRepo, s.rankingCache, roleVerifier)
	return nil
}

// loadCaller sets the identity every domain call of this process runs as.
func (s *srv) loadCaller(cctx *cli.Context) {
	s.ctx = xcontext.WithRequestUserID(s.ctx, cctx.String("user"))
	s.ctx = xcontext.WithRequestRoles(s.ctx, cctx.StringSlice("role")...)
}

// print writes resp as indented JSON, or turns err into an exit error carrying its code.
func (s *srv) print(resp any, err error) error {
	if err != nil {
		var domainErr errorx.Error
		if errors.As(err, &domainErr) {
			if domainErr.Subject != "" {
				return cli.Exit(fmt.Sprintf("error %d: %s (%s)", domainErr.Code, domainErr.Message, domainErr.Subject), 1)
			}

			return cli.Exit(fmt.Sprintf("error %d: %s", domainErr.Code, domainErr.Message), 1)
		}

		return cli.Exit(err.Error(), 1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

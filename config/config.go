package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string `toml:"env" env:"ENV"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	Database DatabaseConfigs `toml:"database" envPrefix:"DB_"`
	Redis    RedisConfigs    `toml:"redis" envPrefix:"REDIS_"`
	Kafka    KafkaConfigs    `toml:"kafka" envPrefix:"KAFKA_"`
	Trainer  TrainerConfigs  `toml:"trainer" envPrefix:"TRAINER_"`
	Battle   BattleConfigs   `toml:"battle" envPrefix:"BATTLE_"`
	Ranking  RankingConfigs  `toml:"ranking" envPrefix:"RANKING_"`
	Cron     CronConfigs     `toml:"cron" envPrefix:"CRON_"`
}

type DatabaseConfigs struct {
	Driver   string `toml:"driver" env:"DRIVER"`
	Host     string `toml:"host" env:"HOST"`
	Port     string `toml:"port" env:"PORT"`
	Database string `toml:"database" env:"NAME"`
	User     string `toml:"user" env:"USER"`
	Password string `toml:"password" env:"PASSWORD"`

	// File is only used by the sqlite driver.
	File string `toml:"file" env:"FILE"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
		)
	case "sqlite":
		return d.File
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr" env:"ADDR"`
}

type KafkaConfigs struct {
	Addr        string `toml:"addr" env:"ADDR"`
	ClientID    string `toml:"client_id" env:"CLIENT_ID"`
	BattleTopic string `toml:"battle_topic" env:"BATTLE_TOPIC"`
}

type TrainerConfigs struct {
	MaxPokemons int `toml:"max_pokemons" env:"MAX_POKEMONS"`
}

type BattleConfigs struct {
	PointsAwarded int64 `toml:"points_awarded" env:"POINTS_AWARDED"`
	RandomMin     int   `toml:"random_min" env:"RANDOM_MIN"`
	RandomMax     int   `toml:"random_max" env:"RANDOM_MAX"`
	RecentLimit   int   `toml:"recent_limit" env:"RECENT_LIMIT"`
}

type RankingConfigs struct {
	CacheTTL     time.Duration `toml:"cache_ttl" env:"CACHE_TTL"`
	MonthlyTopN  int           `toml:"monthly_top_n" env:"MONTHLY_TOP_N"`
	SimilarRange int64         `toml:"similar_range" env:"SIMILAR_RANGE"`
}

type CronConfigs struct {
	RankingWarmupInterval time.Duration `toml:"ranking_warmup_interval" env:"RANKING_WARMUP_INTERVAL"`
	WarmupTopCounts       []int         `toml:"warmup_top_counts" env:"WARMUP_TOP_COUNTS"`
}

// Default returns the configuration used when neither a file nor the environment overrides a
// value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "pokeleague",
			User:     "root",
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{ClientID: "pokeleague", BattleTopic: "battle"},
		Trainer: TrainerConfigs{
			MaxPokemons: 3,
		},
		Battle: BattleConfigs{
			PointsAwarded: 3,
			RandomMin:     1,
			RandomMax:     20,
			RecentLimit:   10,
		},
		Ranking: RankingConfigs{
			CacheTTL:     600 * time.Second,
			MonthlyTopN:  5,
			SimilarRange: 30,
		},
		Cron: CronConfigs{
			RankingWarmupInterval: 5 * time.Minute,
			WarmupTopCounts:       []int{3, 5, 10, 20},
		},
	}
}

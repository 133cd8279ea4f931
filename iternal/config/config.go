package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DB struct {
	User string `yaml:"user" env-required:"true"`
	Pass string `yaml:"password" env-required:"true"`
	Host string `yaml:"host" env-required:"true"`
	Port string `yaml:"port"`
	Name string `yaml:"dbname" env-default:"geoguess"`
	Ssl  string `yaml:"sslmode" env-required:"true"`
}

type Rest struct {
	Host string `yaml:"host" env-required:"true"`
	Port string `yaml:"port" env-required:"true"`
}

type Log struct {
	FilePath string `yaml:"logger_file_path"`
}

type Auth struct {
	Secret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"8h"`
}

type Game struct {
	MaxScore        int64         `yaml:"max_score" env-default:"1000"`
	KmPerPoint      float64       `yaml:"km_per_point" env-default:"2"`
	LeaderboardSize int           `yaml:"leaderboard_size" env-default:"100"`
	ReadTimeout     time.Duration `yaml:"leaderboard_read_timeout" env-default:"3s"`
}

type Maps struct {
	Key string `yaml:"google_key" env:"GOOGLE_KEY"`
}

type Config struct {
	Env  string `yaml:"env"`
	DB   DB     `yaml:"postgres_db"`
	Rest Rest   `yaml:"rest_server"`
	Log  Log    `yaml:"logger"`
	Auth Auth   `yaml:"auth"`
	Game Game   `yaml:"game"`
	Maps Maps   `yaml:"maps"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	// check that the file actually exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatal("cannot read config file")
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	return &cfg
}

package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken       string `envconfig:"BOT_TOKEN" required:"true"`
	StorePath      string `envconfig:"STORE_PATH" default:"./data/db.json"`
	StoreBootstrap bool   `envconfig:"STORE_BOOTSTRAP" default:"false"` // create the store file if missing
	DefaultTZ      string `envconfig:"DEFAULT_TZ" default:"UTC"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr       string `envconfig:"HTTP_ADDR" default:":8080"`
	HolidayAPIURL  string `envconfig:"HOLIDAY_API_URL" default:""` // empty = public checkiday API
	WaifuAPIURL    string `envconfig:"WAIFU_API_URL" default:""`   // empty = public waifu.pics API
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

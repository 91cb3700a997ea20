package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DBUser     string `yaml:"db_user" env-default:"root"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env-default:"3306"`
	DBName     string `yaml:"db_name" env-default:"oil"`

	AdminLogin string `yaml:"admin_login"`
	AdminPass  string `yaml:"admin_pass"`

	Pipeline Pipeline `yaml:"pipeline"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:4002"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Pipeline holds every tunable the derivation engine reads. The old tool
// pulled these out of a nested settings dict at call time; here they are
// named fields validated once at load.
type Pipeline struct {
	// AmountRules map restaurant-type keywords to barrel counts. Order
	// matters: rules are matched top to bottom.
	AmountRules []AmountRule `yaml:"amount_rules"`

	WindowMin int `yaml:"window_min" env-default:"35"`
	WindowMax int `yaml:"window_max" env-default:"44"`
	// KeepPartialWindow assigns a vehicle to a region's trailing window
	// even when its total is below WindowMin. Off by default: the books
	// have always silently dropped that remainder.
	KeepPartialWindow bool `yaml:"keep_partial_window" env-default:"false"`

	NetWeightFactor float64 `yaml:"net_weight_factor" env-default:"0.18"`

	TargetWeight     float64 `yaml:"target_weight" env-default:"3000"`
	Tolerance        float64 `yaml:"tolerance" env-default:"0.05"`
	WeightRetryLimit int     `yaml:"weight_retry_limit" env-default:"1000"`
	MonthlyTrips     int     `yaml:"monthly_trips" env-default:"92"`

	CoeffMin int `yaml:"coeff_min" env-default:"900"`
	CoeffMax int `yaml:"coeff_max" env-default:"930"`

	// Seed makes a run reproducible; 0 keeps the historical unseeded
	// behaviour.
	Seed int64 `yaml:"seed" env-default:"0"`
}

// AmountRule: Types is a "/"-separated keyword list, Amounts a
// comma-separated set of barrel counts one of which is drawn per visit.
type AmountRule struct {
	Types   string `yaml:"types"`
	Amounts string `yaml:"amounts"`
}

// Options parses the comma-separated amount list.
func (r AmountRule) Options() ([]int, error) {
	parts := strings.Split(r.Amounts, ",")
	opts := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("amount rule %q: bad value %q", r.Types, p)
		}
		opts = append(opts, v)
	}
	return opts, nil
}

func (p Pipeline) Validate() error {
	if p.WindowMin <= 0 || p.WindowMax < p.WindowMin {
		return fmt.Errorf("window bounds %d..%d are not a valid band", p.WindowMin, p.WindowMax)
	}
	if p.NetWeightFactor <= 0 {
		return fmt.Errorf("net_weight_factor must be positive, got %v", p.NetWeightFactor)
	}
	if p.TargetWeight <= 0 || p.Tolerance <= 0 {
		return fmt.Errorf("target_weight/tolerance must be positive, got %v/%v", p.TargetWeight, p.Tolerance)
	}
	if p.WeightRetryLimit <= 0 {
		return fmt.Errorf("weight_retry_limit must be positive, got %d", p.WeightRetryLimit)
	}
	if p.MonthlyTrips <= 0 {
		return fmt.Errorf("monthly_trips must be positive, got %d", p.MonthlyTrips)
	}
	if p.CoeffMin <= 0 || p.CoeffMax < p.CoeffMin {
		return fmt.Errorf("coefficient range %d..%d is not valid", p.CoeffMin, p.CoeffMax)
	}
	for _, r := range p.AmountRules {
		if _, err := r.Options(); err != nil {
			return err
		}
	}
	return nil
}

func MustConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/local.yaml"
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		log.Fatalf("bad pipeline config: %s", err)
	}

	return &cfg
}

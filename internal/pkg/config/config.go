package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/workflow"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET,       required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Policy    PolicyConfig
	Evidence  EvidenceConfig
	Bootstrap BootstrapConfig
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=claims_system"`
	AppName        string        `env:"MONGO_APP_NAME,        default=claims-api"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE,   default=50"`
	MinPoolSize    uint64        `env:"MONGO_MIN_POOL_SIZE,   default=0"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
}

// PolicyConfig holds the validation gate ceilings as decimal strings.
type PolicyConfig struct {
	MaxMonthlyHours          string `env:"POLICY_MAX_MONTHLY_HOURS,          default=180"`
	MaxHourlyRateCoordinator string `env:"POLICY_MAX_HOURLY_RATE_COORDINATOR, default=1000"`
	MaxHourlyRateManager     string `env:"POLICY_MAX_HOURLY_RATE_MANAGER,     default=400"`
	MaxTotalAmount           string `env:"POLICY_MAX_TOTAL_AMOUNT,           default=100000"`
}

type EvidenceConfig struct {
	// AllowedExtensions is a comma separated list such as ".pdf,.docx".
	AllowedExtensions string `env:"EVIDENCE_ALLOWED_EXTENSIONS"`
	MaxFileSizeBytes  int64  `env:"EVIDENCE_MAX_FILE_SIZE_BYTES, default=5242880"`
}

// BootstrapConfig seeds an HR account on start when both fields are set.
type BootstrapConfig struct {
	HREmail    string `env:"BOOTSTRAP_HR_EMAIL"`
	HRPassword string `env:"BOOTSTRAP_HR_PASSWORD"`
	HRName     string `env:"BOOTSTRAP_HR_NAME, default=HR Administrator"`
}

// Enabled reports whether an HR account should be seeded.
func (b BootstrapConfig) Enabled() bool {
	return b.HREmail != "" && b.HRPassword != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if _, err := cfg.WorkflowPolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WorkflowPolicy converts the configured limits into the engine's policy.
// Unset evidence extensions fall back to the default allow-list.
func (c *Config) WorkflowPolicy() (workflow.Policy, error) {
	policy := workflow.DefaultPolicy()

	limits := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"POLICY_MAX_MONTHLY_HOURS", c.Policy.MaxMonthlyHours, &policy.MaxMonthlyHours},
		{"POLICY_MAX_HOURLY_RATE_COORDINATOR", c.Policy.MaxHourlyRateCoordinator, &policy.MaxHourlyRateCoordinator},
		{"POLICY_MAX_HOURLY_RATE_MANAGER", c.Policy.MaxHourlyRateManager, &policy.MaxHourlyRateManager},
		{"POLICY_MAX_TOTAL_AMOUNT", c.Policy.MaxTotalAmount, &policy.MaxTotalAmount},
	}
	for _, l := range limits {
		if l.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(l.raw))
		if err != nil {
			return workflow.Policy{}, fmt.Errorf("%s: %w", l.name, err)
		}
		if !v.IsPositive() {
			return workflow.Policy{}, fmt.Errorf("%s: must be positive", l.name)
		}
		*l.dst = v
	}

	if exts := parseExtensions(c.Evidence.AllowedExtensions); len(exts) > 0 {
		policy.Evidence.AllowedExtensions = exts
	}
	if c.Evidence.MaxFileSizeBytes > 0 {
		policy.Evidence.MaxFileSizeBytes = c.Evidence.MaxFileSizeBytes
	}
	return policy, nil
}

// parseExtensions normalises "pdf, .DOCX" into [".pdf", ".docx"].
func parseExtensions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

package agency

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the static agency directory and agent whitelist. Both are
// local MVP data; a later deployment replaces them with an upstream service.
type Config struct {
	Companies []AgencyCompany    `yaml:"companies"`
	Agents    []WhitelistedAgent `yaml:"agents"`
}

// DefaultConfig returns the built-in demo directory.
func DefaultConfig() Config {
	return Config{
		Companies: []AgencyCompany{
			{
				ID:   "agency-demo",
				Name: "Demo Agency Co., Ltd.",
				Accounts: []BillingAccount{
					{
						ID:          "acct-usd-30",
						Name:        "Monthly Settlement (T+30)",
						Currency:    CurrencyUSD,
						CreditLimit: 20000,
						UsedAmount:  3500,
						TermDays:    30,
					},
				},
			},
		},
		Agents: []WhitelistedAgent{
			{AgencyCompanyID: "agency-demo", Phone: "13800138000", Notes: "Demo agent"},
			{AgencyCompanyID: "agency-demo", Email: "agent@example.com"},
		},
	}
}

// LoadConfig reads the directory config from path, falling back to the
// built-in demo data when path is empty.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Companies) == 0 && len(cfg.Agents) == 0 {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

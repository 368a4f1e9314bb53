package config

// Package config provides a reusable loader for the router service's
// configuration and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/synnergy-network/swaprouter/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration of §6.4: deposit-derivation
// seed material, HTTP server binding, and every provider endpoint.
type Config struct {
	Mnemonic         string   `mapstructure:"mnemonic" json:"mnemonic"`
	WalletPassphrase string   `mapstructure:"wallet_passphrase" json:"walletPassphrase"`
	Port             int      `mapstructure:"port" json:"port"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" json:"allowedOrigins"`

	ThorchainNodeURL    string `mapstructure:"thorchain_node_url" json:"thorchainNodeUrl"`
	ThorchainMidgardURL string `mapstructure:"thorchain_midgard_url" json:"thorchainMidgardUrl"`
	MayachainNodeURL    string `mapstructure:"mayachain_node_url" json:"mayachainNodeUrl"`
	MayachainMidgardURL string `mapstructure:"mayachain_midgard_url" json:"mayachainMidgardUrl"`
	ChainflipAPIURL     string `mapstructure:"chainflip_api_url" json:"chainflipApiUrl"`
	ChainflipAPIKey     string `mapstructure:"chainflip_api_key" json:"chainflipApiKey"`
	CowSwapBaseURL      string `mapstructure:"cowswap_base_url" json:"cowswapBaseUrl"`
	ZrxBaseURL          string `mapstructure:"zrx_base_url" json:"zrxBaseUrl"`
	RelayAPIURL         string `mapstructure:"relay_api_url" json:"relayApiUrl"`
	PortalsBaseURL      string `mapstructure:"portals_base_url" json:"portalsBaseUrl"`
	JupiterAPIURL       string `mapstructure:"jupiter_api_url" json:"jupiterApiUrl"`
}

// defaults holds the documented public default for each provider endpoint
// named in §6.4, applied before environment overrides are read.
var defaults = map[string]interface{}{
	"port":                       3001,
	"thorchain_node_url":         "https://thornode.ninerealms.com",
	"thorchain_midgard_url":      "https://midgard.ninerealms.com",
	"mayachain_node_url":         "https://mayanode.mayachain.info",
	"mayachain_midgard_url":      "https://midgard.mayachain.info",
	"chainflip_api_url":          "https://chainflip-broker.io",
	"cowswap_base_url":           "https://api.cow.fi",
	"zrx_base_url":               "https://api.0x.org",
	"relay_api_url":              "https://api.relay.link",
	"portals_base_url":           "https://api.portals.fi",
	"jupiter_api_url":            "https://quote-api.jup.ag",
}

// envBindings maps each §6.4 environment variable to its mapstructure key.
var envBindings = map[string]string{
	"MNEMONIC":                   "mnemonic",
	"WALLET_PASSPHRASE":          "wallet_passphrase",
	"PORT":                       "port",
	"ALLOWED_ORIGINS":            "allowed_origins",
	"VITE_THORCHAIN_NODE_URL":    "thorchain_node_url",
	"VITE_THORCHAIN_MIDGARD_URL": "thorchain_midgard_url",
	"VITE_MAYACHAIN_NODE_URL":    "mayachain_node_url",
	"VITE_MAYACHAIN_MIDGARD_URL": "mayachain_midgard_url",
	"VITE_CHAINFLIP_API_URL":     "chainflip_api_url",
	"VITE_CHAINFLIP_API_KEY":     "chainflip_api_key",
	"VITE_COWSWAP_BASE_URL":      "cowswap_base_url",
	"VITE_ZRX_BASE_URL":          "zrx_base_url",
	"VITE_RELAY_API_URL":         "relay_api_url",
	"VITE_PORTALS_BASE_URL":      "portals_base_url",
	"VITE_JUPITER_API_URL":       "jupiter_api_url",
}

// AppConfig holds the configuration loaded via Load.
var AppConfig Config

// Load reads a local .env file (if present), applies the §6.4 defaults,
// binds every documented environment variable via viper, and unmarshals
// the result into AppConfig.
func Load() (*Config, error) {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for env, key := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, utils.Wrap(err, "bind env "+env)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	// viper's default string-to-slice decode hook splits on comma without
	// trimming; rebuild from the raw string so whitespace around entries
	// never leaks into an origin value.
	if raw := v.GetString("allowed_origins"); raw != "" {
		cfg.AllowedOrigins = splitCSV(raw)
	}
	AppConfig = cfg
	return &AppConfig, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

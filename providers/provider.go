// Package providers implements one CatalogAdapter per supported swap
// protocol (C2). Each adapter translates the abstract AID into the
// provider's own asset notation, performs one HTTP round trip per quote,
// and never lets a network failure propagate past a failed StepQuote.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synnergy-network/swaprouter/core"
)

const defaultTimeout = 10 * time.Second
const cowSwapTimeout = 15 * time.Second

// httpClient is shared across adapters; each call carries its own
// per-request deadline via context (§5).
var httpClient = &http.Client{}

func getJSON(ctx context.Context, timeout time.Duration, url string, headers map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func postJSON(ctx context.Context, timeout time.Duration, url string, headers map[string]string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// failedStep wraps any adapter-local failure into a non-fatal StepQuote,
// per §7's propagation policy: adapter errors never propagate raw.
func failedStep(err error) (core.StepQuote, error) {
	return core.StepQuote{Success: false, Error: err.Error()}, nil
}

// NewRegistry builds an AdapterRegistry pre-wired with every supported
// provider, given each provider's configured base URL.
func NewRegistry(cfg Config) *core.AdapterRegistry {
	r := core.NewAdapterRegistry()
	r.Register(NewThorchain(cfg.ThorchainNodeURL, cfg.ThorchainMidgardURL))
	r.Register(NewMayachain(cfg.MayachainNodeURL, cfg.MayachainMidgardURL))
	r.Register(NewChainflip(cfg.ChainflipAPIURL, cfg.ChainflipAPIKey))
	r.Register(NewCowSwap(cfg.CowSwapBaseURL))
	r.Register(NewZeroX(cfg.ZrxBaseURL))
	r.Register(NewRelay(cfg.RelayAPIURL))
	r.Register(NewPortals(cfg.PortalsBaseURL))
	r.Register(NewJupiter(cfg.JupiterAPIURL))
	r.Register(NewNearIntents())
	r.Register(NewButterSwap())
	r.Register(NewBebop())
	return r
}

// Config carries every provider endpoint named in §6.4.
type Config struct {
	ThorchainNodeURL    string
	ThorchainMidgardURL string
	MayachainNodeURL    string
	MayachainMidgardURL string
	ChainflipAPIURL     string
	ChainflipAPIKey     string
	CowSwapBaseURL      string
	ZrxBaseURL          string
	RelayAPIURL         string
	PortalsBaseURL      string
	JupiterAPIURL       string
}

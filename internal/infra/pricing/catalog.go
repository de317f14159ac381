package pricing

import (
	"encoding/json"
	"log/slog"
	"strings"

	domainpricing "pethost/internal/domain/pricing"
)

type addOnEntry struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	PerDay      bool   `json:"per_day"`
}

// LoadAddOnCatalog parses the PRICING_ADDONS JSON array. An empty or broken
// value falls back to the platform defaults.
func LoadAddOnCatalog(raw string, logger *slog.Logger) []domainpricing.AddOn {
	if strings.TrimSpace(raw) == "" {
		return domainpricing.DefaultAddOns
	}
	var entries []addOnEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if logger != nil {
			logger.Warn("invalid PRICING_ADDONS JSON, using defaults", "error", err)
		}
		return domainpricing.DefaultAddOns
	}
	out := make([]domainpricing.AddOn, 0, len(entries))
	for _, e := range entries {
		id := strings.ToLower(strings.TrimSpace(e.ID))
		if id == "" || e.AmountCents < 0 {
			if logger != nil {
				logger.Warn("skipping add-on entry", "id", e.ID, "amount_cents", e.AmountCents)
			}
			continue
		}
		out = append(out, domainpricing.AddOn{ID: id, AmountCents: e.AmountCents, PerDay: e.PerDay})
	}
	if len(out) == 0 {
		return domainpricing.DefaultAddOns
	}
	return out
}

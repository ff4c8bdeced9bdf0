package payments

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultLinks returns the Stripe payment links for every
// {type}-{formule}-{distance} combination. A fresh map is returned on each call.
func DefaultLinks() map[string]string {
	return map[string]string{
		"spa-confort-100":        "https://buy.stripe.com/test_3cIdRa6Dygoh0d1bXI4ow00",
		"spa-confort-200":        "https://buy.stripe.com/test_bJe5kEbXS7RLaRF8Lw4ow01",
		"spa-confort-250":        "https://buy.stripe.com/test_5kQdRafa45JD2l99PA4ow02",
		"spa-confort-custom":     "https://buy.stripe.com/test_bJe4gAe60eg9bVJ4vg4ow03",
		"spa-revision-100":       "https://buy.stripe.com/test_5kQ9AU3rmb3XgbZ8Lw4ow04",
		"spa-revision-200":       "https://buy.stripe.com/test_6oUfZifa48VP5xl6Do4ow05",
		"spa-revision-250":       "https://buy.stripe.com/test_7sY9AUd1W0pj5xl8Lw4ow06",
		"spa-revision-custom":    "https://buy.stripe.com/test_aFadRae60eg96Bp1j44ow07",
		"mono-confort-100":       "https://buy.stripe.com/test_7sYeVebXS3Bv0d19PA4ow08",
		"mono-confort-200":       "https://buy.stripe.com/test_00wfZi3rmfkdaRFaTE4ow09",
		"mono-confort-250":       "https://buy.stripe.com/test_4gMbJ20fa9ZT4th6Do4ow0a",
		"mono-confort-custom":    "https://buy.stripe.com/test_bJeaEY4vq1tn4th9PA4ow0b",
		"mono-revision-100":      "https://buy.stripe.com/test_bJe5kE7HC2xr1h5gdY4ow0c",
		"mono-revision-200":      "https://buy.stripe.com/test_5kQbJ2bXS0pj6Bp5zk4ow0d",
		"mono-revision-250":      "https://buy.stripe.com/test_aFa9AU5zu6NH6Bp3rc4ow0e",
		"mono-revision-custom":   "https://buy.stripe.com/test_aFa6oI8LG7RL6Bp3rc4ow0f",
		"double-confort-100":     "https://buy.stripe.com/test_4gM3cwbXS4FzbVJ5zk4ow0g",
		"double-confort-200":     "https://buy.stripe.com/test_bJe4gAfa4eg9e3R1j44ow0h",
		"double-confort-250":     "https://buy.stripe.com/test_9B600k4vq8VP4th1j44ow0i",
		"double-confort-custom":  "https://buy.stripe.com/test_eVq3cwd1Wc81e3R1j44ow0j",
		"double-revision-100":    "https://buy.stripe.com/test_eVq00kaTO9ZTf7V4vg4ow0k",
		"double-revision-200":    "https://buy.stripe.com/test_dRm14o1je7RLe3R5zk4ow0l",
		"double-revision-250":    "https://buy.stripe.com/test_dRmaEY7HC6NH5xl8Lw4ow0m",
		"double-revision-custom": "https://buy.stripe.com/test_8x214o9PKc816Bp9PA4ow0n",
	}
}

// Table is a read-only mapping from lookup key to payment link.
type Table struct {
	links map[string]string
}

// NewTable copies links into a new Table. Later changes to links are not seen.
func NewTable(links map[string]string) *Table {
	copied := make(map[string]string, len(links))
	for k, v := range links {
		copied[k] = v
	}
	return &Table{links: copied}
}

// Key joins the three lookup fields with hyphens.
func Key(basinType, formule, distance string) string {
	return basinType + "-" + formule + "-" + distance
}

// Lookup returns the payment link for the given combination.
func (t *Table) Lookup(basinType, formule, distance string) (string, bool) {
	link, ok := t.links[Key(basinType, formule, distance)]
	return link, ok
}

func (t *Table) Len() int {
	return len(t.links)
}

// LoadFile reads the payment_links mapping from a YAML (or any viper supported)
// file.
func LoadFile(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read payment links file %s: %w", path, err)
	}

	links := v.GetStringMapString("payment_links")
	if len(links) == 0 {
		return nil, fmt.Errorf("no payment_links found in %s", path)
	}

	for key, link := range links {
		if strings.Count(key, "-") < 2 {
			return nil, fmt.Errorf("invalid payment link key %q: expected type-formule-distance", key)
		}
		if !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "http://") {
			return nil, fmt.Errorf("invalid payment link for %q: %q", key, link)
		}
	}

	return links, nil
}

// Merge overlays extra on top of base and returns the combined map.
func Merge(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

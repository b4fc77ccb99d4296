package dispatch

import (
	"math"
	"sort"

	"curator/internal/provider"
)

// unconfiguredOrder places providers missing from the configured order list
// after every configured entry.
const unconfiguredOrder = math.MaxInt

// orderProviders sorts eligible providers by configured position, then
// declared priority, then registration order. Only remote providers honor
// the configured list; local and dynamic providers are always unconfigured.
func orderProviders(regs []provider.Registration, configuredIndex func(name string) int) []provider.Registration {
	type keyed struct {
		reg        provider.Registration
		configured int
	}
	items := make([]keyed, len(regs))
	for i, reg := range regs {
		position := unconfiguredOrder
		if reg.Caps.Has(provider.Remote) {
			if idx := configuredIndex(reg.Name()); idx >= 0 {
				position = idx
			}
		}
		items[i] = keyed{reg: reg, configured: position}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].configured != items[j].configured {
			return items[i].configured < items[j].configured
		}
		return items[i].reg.Priority < items[j].reg.Priority
	})
	out := make([]provider.Registration, len(items))
	for i, item := range items {
		out[i] = item.reg
	}
	return out
}

package provider

import "strings"

// Capability is a set of plugin traits fixed at registration.
type Capability uint8

const (
	// Local plugins read from the item's own files.
	Local Capability = 1 << iota
	// Remote plugins contact an external service and honor the internet
	// switch and per-type disable lists.
	Remote
	// Image plugins supply artwork.
	Image
	// Metadata plugins supply descriptive fields.
	Metadata
)

// Has reports whether every bit in flag is set.
func (c Capability) Has(flag Capability) bool {
	return flag != 0 && c&flag == flag
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, entry := range []struct {
		flag Capability
		name string
	}{
		{Local, "local"},
		{Remote, "remote"},
		{Image, "image"},
		{Metadata, "metadata"},
	} {
		if c.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

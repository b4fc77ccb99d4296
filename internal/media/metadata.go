package media

import "maps"

// Metadata holds the descriptive fields providers fill in.
type Metadata struct {
	Title           string            `json:"title,omitempty"`
	OriginalTitle   string            `json:"original_title,omitempty"`
	Overview        string            `json:"overview,omitempty"`
	ProductionYear  int               `json:"production_year,omitempty"`
	Genres          []string          `json:"genres,omitempty"`
	Studios         []string          `json:"studios,omitempty"`
	CommunityRating float64           `json:"community_rating,omitempty"`
	ProviderIDs     map[string]string `json:"provider_ids,omitempty"`
}

// MetadataHolder is implemented by items that carry mutable metadata.
type MetadataHolder interface {
	Metadata() *Metadata
}

// MetadataOf returns the item's metadata, or nil when the item carries none.
func MetadataOf(item Item) *Metadata {
	if holder, ok := item.(MetadataHolder); ok {
		return holder.Metadata()
	}
	return nil
}

// IsEmpty reports whether no field has been populated.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" &&
		m.OriginalTitle == "" &&
		m.Overview == "" &&
		m.ProductionYear == 0 &&
		len(m.Genres) == 0 &&
		len(m.Studios) == 0 &&
		m.CommunityRating == 0 &&
		len(m.ProviderIDs) == 0
}

// FillMissing copies fields from other that are unset on m. Provider IDs are
// merged key by key. It reports whether anything changed.
func (m *Metadata) FillMissing(other Metadata) bool {
	changed := false
	setString := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			changed = true
		}
	}
	setString(&m.Title, other.Title)
	setString(&m.OriginalTitle, other.OriginalTitle)
	setString(&m.Overview, other.Overview)
	if m.ProductionYear == 0 && other.ProductionYear != 0 {
		m.ProductionYear = other.ProductionYear
		changed = true
	}
	if len(m.Genres) == 0 && len(other.Genres) > 0 {
		m.Genres = append([]string(nil), other.Genres...)
		changed = true
	}
	if len(m.Studios) == 0 && len(other.Studios) > 0 {
		m.Studios = append([]string(nil), other.Studios...)
		changed = true
	}
	if m.CommunityRating == 0 && other.CommunityRating != 0 {
		m.CommunityRating = other.CommunityRating
		changed = true
	}
	for key, value := range other.ProviderIDs {
		if value == "" {
			continue
		}
		if _, ok := m.ProviderIDs[key]; ok {
			continue
		}
		if m.ProviderIDs == nil {
			m.ProviderIDs = make(map[string]string)
		}
		m.ProviderIDs[key] = value
		changed = true
	}
	return changed
}

// Clone returns a deep copy.
func (m Metadata) Clone() Metadata {
	out := m
	out.Genres = append([]string(nil), m.Genres...)
	out.Studios = append([]string(nil), m.Studios...)
	out.ProviderIDs = maps.Clone(m.ProviderIDs)
	return out
}

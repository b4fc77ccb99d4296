package provider

import "fmt"

// Registration is a provider plus the capabilities it was registered with.
// Exactly one of Image or MetadataSource is set.
type Registration struct {
	Caps Capability
	// Priority is the provider's declared order, zero when it declares none.
	Priority int

	Image          ImageProvider
	LocalImages    LocalImageProvider
	RemoteImages   RemoteImageProvider
	ImageKinds     ImageKindReporter
	MetadataSource MetadataProvider
	LocalMetadata  LocalMetadataProvider
	RemoteMetadata RemoteMetadataProvider
}

// Name returns the provider's display name.
func (r Registration) Name() string {
	switch {
	case r.Image != nil:
		return r.Image.Name()
	case r.MetadataSource != nil:
		return r.MetadataSource.Name()
	default:
		return ""
	}
}

// IsImage reports whether the registration serves artwork.
func (r Registration) IsImage() bool { return r.Caps.Has(Image) }

// IsMetadata reports whether the registration serves descriptive fields.
func (r Registration) IsMetadata() bool { return r.Caps.Has(Metadata) }

// IsDynamicImage reports whether the registration renders artwork itself.
func (r Registration) IsDynamicImage() bool {
	return r.IsImage() && !r.Caps.Has(Local) && !r.Caps.Has(Remote)
}

func (r Registration) String() string {
	return fmt.Sprintf("%s(%s)", r.Name(), r.Caps)
}

func priorityOf(p Provider) int {
	if ordered, ok := p.(Ordered); ok {
		return ordered.Order()
	}
	return 0
}

// LocalImage registers a provider of artwork stored next to the item.
func LocalImage(p LocalImageProvider) Registration {
	return Registration{
		Caps:        Local | Image,
		Priority:    priorityOf(p),
		Image:       p,
		LocalImages: p,
	}
}

// RemoteImage registers a provider of downloadable artwork.
func RemoteImage(p RemoteImageProvider) Registration {
	return Registration{
		Caps:         Remote | Image,
		Priority:     priorityOf(p),
		Image:        p,
		RemoteImages: p,
		ImageKinds:   p,
	}
}

// DynamicImage registers a provider that renders artwork on demand.
func DynamicImage(p DynamicImageProvider) Registration {
	return Registration{
		Caps:       Image,
		Priority:   priorityOf(p),
		Image:      p,
		ImageKinds: p,
	}
}

// LocalMetadata registers a reader of metadata stored next to the item.
func LocalMetadata(p LocalMetadataProvider) Registration {
	return Registration{
		Caps:           Local | Metadata,
		Priority:       priorityOf(p),
		MetadataSource: p,
		LocalMetadata:  p,
	}
}

// RemoteMetadata registers a metadata fetcher backed by an external service.
func RemoteMetadata(p RemoteMetadataProvider) Registration {
	return Registration{
		Caps:           Remote | Metadata,
		Priority:       priorityOf(p),
		MetadataSource: p,
		RemoteMetadata: p,
	}
}

package order

// Platform identifies the marketplace an order originated from
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformBlinkit  Platform = "blinkit"
	PlatformFlipkart Platform = "flipkart"
	PlatformSwiggy   Platform = "swiggy"
	PlatformOrganic  Platform = "organic"
)

// AllPlatforms returns every supported platform in a stable order
func AllPlatforms() []Platform {
	return []Platform{
		PlatformAmazon,
		PlatformBlinkit,
		PlatformFlipkart,
		PlatformSwiggy,
		PlatformOrganic,
	}
}

// IsValid checks if the platform is in the supported set
func (p Platform) IsValid() bool {
	switch p {
	case PlatformAmazon, PlatformBlinkit, PlatformFlipkart, PlatformSwiggy, PlatformOrganic:
		return true
	}
	return false
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// NumberPrefix returns the order number prefix used for the platform
func (p Platform) NumberPrefix() string {
	switch p {
	case PlatformAmazon:
		return "AMZ"
	case PlatformBlinkit:
		return "BLK"
	case PlatformFlipkart:
		return "FLP"
	case PlatformSwiggy:
		return "SWG"
	case PlatformOrganic:
		return "ORG"
	}
	return "ORD"
}

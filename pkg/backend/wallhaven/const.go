package wallhaven

// serviceName is the name of the wallhaven image service.
const serviceName = "wallhaven"

// Default values for the wallhaven.cc image service.
const (
	WallhavenBaseURL      = "https://wallhaven.cc/api/v1"        // WallhavenBaseURL is the base URL of the wallhaven API
	WallhavenAPISearchURL = WallhavenBaseURL + "/search"         // WallhavenAPISearchURL is the URL used to search for images on wallhaven API

	// Search defaults: General category only, SFW only, random order.
	CategoriesGeneral = "100"
	PuritySFW         = "100"
	SortingRandom     = "random"
)

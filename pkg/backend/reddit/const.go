package reddit

// serviceName is the name of the reddit image service.
const serviceName = "reddit"

// RedditBaseURL is the base URL for Reddit's public JSON API.
const RedditBaseURL = "https://www.reddit.com"

// postLimit is the number of hot posts requested per listing.
const postLimit = "50"

// defaultSubreddits are queried when no keywords are given.
var defaultSubreddits = []string{
	"wallpapers",
	"wallpaper",
	"MinimalWallpaper",
}

// keywordSubreddits maps abstract keywords to curated subreddits. A keyword
// not present here is tried literally as a subreddit name.
var keywordSubreddits = map[string][]string{
	"nature":       {"EarthPorn", "natureporn", "SkyPorn"},
	"landscape":    {"EarthPorn", "LandscapePhotography"},
	"city":         {"CityPorn", "cityphotos"},
	"space":        {"spaceporn", "astrophotography"},
	"minimal":      {"MinimalWallpaper", "minimalism"},
	"dark":         {"Amoledbackgrounds", "darkwallpapers"},
	"anime":        {"Animewallpaper", "AnimeWallpapersSFW"},
	"art":          {"ArtPorn", "ImaginaryLandscapes"},
	"car":          {"carporn", "Autos"},
	"architecture": {"ArchitecturePorn", "architecture"},
}

// imageExtensions and imageHosts identify direct-image post URLs.
var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	imageHosts      = []string{"i.redd.it", "i.imgur.com"}
)

// Package all registers every built-in backend with the default registry.
// Import it for side effects:
//
//	import _ "github.com/hyprland-community/wallfetch/pkg/backend/all"
package all

import (
	_ "github.com/hyprland-community/wallfetch/pkg/backend/bing"
	_ "github.com/hyprland-community/wallfetch/pkg/backend/picsum"
	_ "github.com/hyprland-community/wallfetch/pkg/backend/reddit"
	_ "github.com/hyprland-community/wallfetch/pkg/backend/unsplash"
	_ "github.com/hyprland-community/wallfetch/pkg/backend/wallhaven"
)

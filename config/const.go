package config

import "strings"

// AppVersion is the version of the tool, set at build time.
var AppVersion = "dev"

// AppName is the name of the tool.
const AppName = "wallfetch"

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// UserAgent identifies this tool on every outbound HTTP request.
var UserAgent = AppName + "/" + AppVersion

// Default minimum dimensions requested from backends.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// CacheSubDir is the sub directory under the user cache dir holding
// downloaded images.
const CacheSubDir = AppName

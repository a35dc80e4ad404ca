package config

import "path/filepath"

// Sanitize returns a copy safe to log. The key file path is reduced to its
// base name.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Server.CORSAllowedOrigins = append([]string(nil), cfg.Server.CORSAllowedOrigins...)

	if sanitized.Server.HTTP.TLSKeyFile != "" {
		sanitized.Server.HTTP.TLSKeyFile = "***/" + filepath.Base(sanitized.Server.HTTP.TLSKeyFile)
	}
	return &sanitized
}

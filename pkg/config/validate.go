package config

import (
	"fmt"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "discovery.scan_interval"
	Message string // e.g., "must be positive"
	Hint    string // e.g., "use a Go duration such as 3s"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs validation of the entire config. It aggregates all
// errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	if c.Discovery.HostTTL <= 0 {
		errs = append(errs, ValidationError{
			Path:    "discovery.host_ttl",
			Message: "must be positive",
			Hint:    "use a Go duration such as 30s",
		})
	}
	if c.Discovery.ScanInterval <= 0 {
		errs = append(errs, ValidationError{
			Path:    "discovery.scan_interval",
			Message: "must be positive",
			Hint:    "use a Go duration such as 3s",
		})
	}
	if c.Discovery.ScanInterval > 0 && c.Discovery.HostTTL > 0 && c.Discovery.ScanInterval >= c.Discovery.HostTTL {
		errs = append(errs, ValidationError{
			Path:    "discovery.scan_interval",
			Message: "must be shorter than discovery.host_ttl",
			Hint:    "hosts expire before they can be re-observed otherwise",
		})
	}

	if c.Session.MaxMembers < 2 {
		errs = append(errs, ValidationError{
			Path:    "session.max_members",
			Message: "must be at least 2",
		})
	}
	switch c.Session.Visibility {
	case VisibilityPublic, VisibilityFriends:
	default:
		errs = append(errs, ValidationError{
			Path:    "session.visibility",
			Message: fmt.Sprintf("unknown visibility %q", c.Session.Visibility),
			Hint:    `expected "public" or "friends"`,
		})
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}

	return errs
}

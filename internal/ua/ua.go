// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  Access logs
// want a coarse answer: which browser, which platform class, and whether
// the caller looks automated (rig agents and scripts hit this API far more
// often than people do).
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes the access log records.
type Info struct {
	Browser string
	Version string
	OS      string
	Device  string // "Desktop", "Mobile", "Tablet", or "Other".
	IsBot   bool
	Raw     string
}

// Parse converts a raw header into an Info struct.  An empty header is
// normal for programmatic clients and yields an automated classification.
func Parse(raw string) Info {
	if raw == "" {
		return Info{Device: "Other", IsBot: true}
	}
	u := surfer.Parse(raw)

	// The library's enum strings carry their type name ("BrowserChrome",
	// "OSWindows"); trim it off for log-friendly values.
	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	info := Info{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version: versionToString(u.Browser.Version),
		OS:      osName,
		IsBot:   u.IsBot(),
		Raw:     raw,
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// Label renders the compact form used in log lines, e.g. "Chrome/Desktop"
// or "bot".
func (i Info) Label() string {
	if i.IsBot {
		return "bot"
	}
	if i.Browser == "" {
		return i.Device
	}
	return i.Browser + "/" + i.Device
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

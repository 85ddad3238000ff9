/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo reports the version of this module for User-Agent headers and metric labels.
package libinfo

import (
	"debug/buildinfo"
	"regexp"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ShortName is the short name of the module used in the User-Agent header.
const ShortName = "go-crptapi"

const moduleName = "github.com/acronis/" + ShortName

// PrometheusLibVersionLabel is the name of the const label carrying the module version.
const PrometheusLibVersionLabel = "go_crptapi_version"

const unknownVersion = "v0.0.0"

// AddPrometheusLibVersionLabel returns a copy of labels with the module version label added.
func AddPrometheusLibVersionLabel(labels prometheus.Labels) prometheus.Labels {
	labelsCopy := make(prometheus.Labels, len(labels)+1)
	for k, v := range labels {
		labelsCopy[k] = v
	}
	labelsCopy[PrometheusLibVersionLabel] = GetLibVersion()
	return labelsCopy
}

var (
	libVersion     string
	libVersionOnce sync.Once
)

// GetLibVersion returns the version of this module from the build info, or v0.0.0 if it is unknown.
func GetLibVersion() string {
	libVersionOnce.Do(func() {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			libVersion = extractLibVersion(buildInfo, moduleName)
		}
		if libVersion == "" {
			libVersion = unknownVersion
		}
	})
	return libVersion
}

// UserAgent returns the default User-Agent header value, e.g. "go-crptapi/v1.2.3".
func UserAgent() string {
	return ShortName + "/" + GetLibVersion()
}

// extractLibVersion looks for modName (optionally with a /vN major version suffix)
// among the dependencies and then in the main module.
// The main module version is "(devel)" for local builds, which is reported as unknown.
func extractLibVersion(buildInfo *buildinfo.BuildInfo, modName string) string {
	if buildInfo == nil {
		return ""
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(modName) + `(/v[0-9]+)?$`)
	for _, dep := range buildInfo.Deps {
		if re.MatchString(dep.Path) {
			return dep.Version
		}
	}
	if re.MatchString(buildInfo.Main.Path) && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return ""
}

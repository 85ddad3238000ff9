/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package libinfo

import (
	"debug/buildinfo"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestExtractLibVersion(t *testing.T) {
	tests := []struct {
		name        string
		buildInfo   *buildinfo.BuildInfo
		expectedVer string
	}{
		{
			name:        "dependency",
			buildInfo:   &buildinfo.BuildInfo{Deps: []*debug.Module{{Path: moduleName, Version: "v1.2.3"}}},
			expectedVer: "v1.2.3",
		},
		{
			name:        "dependency, v2",
			buildInfo:   &buildinfo.BuildInfo{Deps: []*debug.Module{{Path: moduleName + "/v2", Version: "v2.0.0"}}},
			expectedVer: "v2.0.0",
		},
		{
			name:        "main module",
			buildInfo:   &buildinfo.BuildInfo{Main: debug.Module{Path: moduleName, Version: "v0.3.0"}},
			expectedVer: "v0.3.0",
		},
		{
			name:        "main module, local build",
			buildInfo:   &buildinfo.BuildInfo{Main: debug.Module{Path: moduleName, Version: "(devel)"}},
			expectedVer: "",
		},
		{
			name:        "not found",
			buildInfo:   &buildinfo.BuildInfo{Deps: []*debug.Module{{Path: "github.com/other/module", Version: "v1.0.0"}}},
			expectedVer: "",
		},
		{
			name:        "nil build info",
			expectedVer: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedVer, extractLibVersion(tt.buildInfo, moduleName))
		})
	}
}

func TestAddPrometheusLibVersionLabel(t *testing.T) {
	labels := prometheus.Labels{"client": "crptapi"}
	got := AddPrometheusLibVersionLabel(labels)
	require.Len(t, labels, 1)
	require.Equal(t, "crptapi", got["client"])
	require.Equal(t, GetLibVersion(), got[PrometheusLibVersionLabel])
	require.NotEmpty(t, GetLibVersion())
}

func TestUserAgent(t *testing.T) {
	require.True(t, strings.HasPrefix(UserAgent(), ShortName+"/v"))
}

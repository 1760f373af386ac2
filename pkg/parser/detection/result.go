// Package detection classifies a whole workspace by web framework.
package detection

import (
	"github.com/specvital/routedoc/pkg/parser/framework"
)

type Source string

const (
	SourceUnknown       Source = "unknown"
	SourceContent       Source = "content"
	SourcePath          Source = "path"
	SourceProjectMarker Source = "project-marker"
)

// Result is the framework detected for a workspace.
type Result struct {
	Framework string `json:"framework"`
	Source    Source `json:"source"`
	// Path is the file that produced the match, relative to the workspace root.
	Path string `json:"path,omitempty"`
}

func (r Result) IsUnknown() bool {
	return r.Framework == "" || r.Framework == framework.FrameworkUnknown
}

func Unknown() Result {
	return Result{
		Framework: framework.FrameworkUnknown,
		Source:    SourceUnknown,
	}
}

func FromProjectMarker(framework, markerPath string) Result {
	return Result{
		Framework: framework,
		Source:    SourceProjectMarker,
		Path:      markerPath,
	}
}

func fromSignal(name string, signal framework.Signal, path string) Result {
	src := SourceContent
	if signal == framework.SignalPath {
		src = SourcePath
	}
	return Result{
		Framework: name,
		Source:    src,
		Path:      path,
	}
}

package models

import "github.com/jroosing/zonegit/internal/history"

// RunListResponse lists recorded validation runs, newest first.
type RunListResponse struct {
	Runs  []history.Run `json:"runs"`
	Count int           `json:"count"`
}

// RunDetailResponse is one run together with its per-file verdicts.
type RunDetailResponse struct {
	Run   history.Run       `json:"run"`
	Files []history.FileRow `json:"files"`
}

// FileListResponse carries the latest recorded verdict per path.
type FileListResponse struct {
	Files []history.FileRow `json:"files"`
	Count int               `json:"count"`
}

// SerialHistoryResponse is one path's recorded serial timeline.
type SerialHistoryResponse struct {
	Path    string                `json:"path"`
	Serials []history.SerialPoint `json:"serials"`
}

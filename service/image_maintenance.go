package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"cafebackend/storage"
)

// FileChecker reports whether an uploaded file exists. *storage.Resolver
// satisfies it.
type FileChecker interface {
	Exists(name string) bool
}

type ImageFixAction string

const (
	ImageKept      ImageFixAction = "kept"
	ImageCleared   ImageFixAction = "cleared"
	ImageRewritten ImageFixAction = "rewritten"
	ImageMissing   ImageFixAction = "missing"
)

type ImageFix struct {
	MenuID uint           `json:"menu_id"`
	Name   string         `json:"name"`
	Before *string        `json:"before"`
	After  *string        `json:"after"`
	Action ImageFixAction `json:"action"`
}

type ImageFixReport struct {
	Checked   int        `json:"checked"`
	Cleared   int        `json:"cleared"`
	Rewritten int        `json:"rewritten"`
	Missing   int        `json:"missing"`
	Fixes     []ImageFix `json:"fixes"`
}

// ImageMaintenance rewrites stored image refs into the canonical form the
// resolver expects.
type ImageMaintenance struct {
	menus MenuStore
	files FileChecker
}

func NewImageMaintenance(menus MenuStore, files FileChecker) *ImageMaintenance {
	return &ImageMaintenance{menus: menus, files: files}
}

// NormalizeImageRefs visits every menu row. Null-like refs become NULL,
// path refs whose basename exists in the uploads dir become the bare
// basename, absolute URLs are left alone and missing files are reported.
// With dryRun nothing is written.
func (m *ImageMaintenance) NormalizeImageRefs(ctx context.Context, dryRun bool) (*ImageFixReport, error) {
	items, err := m.menus.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ImageFixReport{Fixes: []ImageFix{}}
	for _, item := range items {
		report.Checked++
		fix := ImageFix{MenuID: item.ID, Name: item.Name, Before: item.ImageRef, After: item.ImageRef, Action: ImageKept}

		switch {
		case item.ImageRef == nil:
			continue
		case storage.IsNullRef(strings.TrimSpace(*item.ImageRef)):
			fix.After = nil
			fix.Action = ImageCleared
		case storage.IsAbsoluteURL(*item.ImageRef):
			continue
		default:
			ref := strings.TrimSpace(*item.ImageRef)
			name := path.Base(strings.ReplaceAll(ref, `\`, "/"))
			switch {
			case !m.files.Exists(name):
				fix.Action = ImageMissing
			case name != *item.ImageRef:
				fix.After = &name
				fix.Action = ImageRewritten
			default:
				continue
			}
		}

		switch fix.Action {
		case ImageCleared:
			report.Cleared++
		case ImageRewritten:
			report.Rewritten++
		case ImageMissing:
			report.Missing++
		}
		report.Fixes = append(report.Fixes, fix)

		if dryRun || fix.Action == ImageMissing {
			continue
		}
		if err := m.menus.SetImageRef(ctx, item.ID, fix.After); err != nil {
			return report, fmt.Errorf("update image of menu item %d: %w", item.ID, err)
		}
	}
	return report, nil
}

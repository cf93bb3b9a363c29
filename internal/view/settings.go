package view

import (
	"context"

	"github.com/newthinker/signaldeck/internal/core"
)

// Settings messages
const (
	SettingsLoadError = "Failed to load settings"
	SettingsSaveError = "Failed to save settings"
	SettingsSaved     = "Configuration saved successfully!"
)

// SettingsService reads and writes bot settings. *service.Service
// satisfies it.
type SettingsService interface {
	FetchSettings(ctx context.Context) (*core.Settings, error)
	UpdateSettings(ctx context.Context, s core.Settings) (*core.Settings, error)
}

// IntervalOption is one entry of the scan interval selector.
type IntervalOption struct {
	Value    core.ScanInterval `json:"value"`
	Label    string            `json:"label"`
	Selected bool              `json:"selected"`
}

// SettingsData holds the configuration form.
type SettingsData struct {
	Title     string            `json:"title"`
	Form      core.SettingsForm `json:"form"`
	Intervals []IntervalOption  `json:"intervals"`
	Error     string            `json:"error,omitempty"`
	Message   string            `json:"message,omitempty"`
	Saved     bool              `json:"saved"`
}

// NewSettings wraps a form in its view.
func NewSettings(form core.SettingsForm) SettingsData {
	opts := make([]IntervalOption, 0, len(core.ScanIntervals))
	for _, i := range core.ScanIntervals {
		opts = append(opts, IntervalOption{Value: i, Label: i.Label(), Selected: i == form.SchedulerInterval})
	}
	return SettingsData{
		Title:     "System Configuration",
		Form:      form,
		Intervals: opts,
	}
}

// LoadSettings fetches the current settings and joins the pairs for
// editing. On failure the default form is returned with an error.
func LoadSettings(ctx context.Context, svc SettingsService) SettingsData {
	s, err := svc.FetchSettings(ctx)
	if err != nil || s == nil {
		data := NewSettings(core.DefaultSettingsForm())
		data.Error = SettingsLoadError
		return data
	}
	return NewSettings(s.Form())
}

// SaveSettings splits the pairs, parses the multiplier and posts the
// result. The form is kept as entered when anything fails.
func SaveSettings(ctx context.Context, svc SettingsService, form core.SettingsForm) SettingsData {
	settings, err := form.Settings()
	if err != nil {
		data := NewSettings(form)
		data.Error = core.Message(err, SettingsSaveError)
		return data
	}

	saved, err := svc.UpdateSettings(ctx, settings)
	if err != nil {
		data := NewSettings(form)
		data.Error = core.Message(err, SettingsSaveError)
		return data
	}

	if saved == nil {
		saved = &settings
	}
	data := NewSettings(saved.Form())
	data.Saved = true
	data.Message = SettingsSaved
	return data
}

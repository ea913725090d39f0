// Package features resolves experimental feature gates from the
// environment, the config file and built-in defaults.
package features

import (
	"os"
	"slices"
	"strings"

	"github.com/openpanel/panel/internal/config"
)

// Feature is an experimental behaviour behind a gate.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

var (
	// ModalDismissByKey makes an outside click close the exact modal
	// instance that was clicked around, instead of the topmost modal with
	// the same name.
	ModalDismissByKey = Feature{
		Name:        "modal_dismiss_by_key",
		Default:     false,
		Description: "Outside clicks close modals by instance instead of by name",
	}

	// ClientProjectPicker enables the fuzzy project picker in client forms.
	ClientProjectPicker = Feature{
		Name:        "client_project_picker",
		Default:     true,
		Description: "Fuzzy project picker dropdown in client dialogs",
	}
)

var all = []Feature{ModalDismissByKey, ClientProjectPicker}

// Gate ties a feature to the surface it changes.
type Gate struct {
	Feature string
	Surface string
}

// GateMap lists every surface guarded by a feature.
var GateMap = []Gate{
	{Feature: ModalDismissByKey.Name, Surface: "settings: modal outside-click dismissal"},
	{Feature: ClientProjectPicker.Name, Surface: "settings: AddClient and EditClient project field"},
}

const (
	envPrefix           = config.EnvPrefix + "_FEATURE_"
	envEnable           = config.EnvPrefix + "_ENABLE_FEATURE"
	envDisable          = config.EnvPrefix + "_DISABLE_FEATURE"
	envKillExperimental = config.EnvPrefix + "_DISABLE_EXPERIMENTAL"
)

// Sources reported by Resolve.
const (
	SourceDefault    = "default"
	SourceConfig     = "config"
	SourceEnv        = "env"
	SourceKillSwitch = "kill"
)

// ListAll returns the known features.
func ListAll() []Feature {
	return slices.Clone(all)
}

// IsKnownFeature reports whether name is a known feature.
func IsKnownFeature(name string) bool {
	_, ok := lookup(name)
	return ok
}

func lookup(name string) (Feature, bool) {
	for _, f := range all {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// IsEnabledForProcess resolves a feature from the environment and its
// default only.
func IsEnabledForProcess(name string) bool {
	if enabled, _, ok := fromEnv(name); ok {
		return enabled
	}
	f, _ := lookup(name)
	return f.Default
}

// IsEnabled resolves a feature against an already loaded config.
func IsEnabled(cfg config.Config, name string) bool {
	enabled, _ := resolve(name, func() (bool, bool) {
		v, ok := cfg.Features[name]
		return v, ok
	})
	return enabled
}

// Resolve returns the feature state and where it came from, reading
// overrides from the config file at path.
func Resolve(path, name string) (bool, string) {
	return resolve(name, func() (bool, bool) {
		v, ok, err := config.GetFeatureFlag(path, name)
		return v, ok && err == nil
	})
}

func resolve(name string, fromConfig func() (bool, bool)) (bool, string) {
	if enabled, source, ok := fromEnv(name); ok {
		return enabled, source
	}
	if v, ok := fromConfig(); ok {
		return v, SourceConfig
	}
	f, _ := lookup(name)
	return f.Default, SourceDefault
}

// fromEnv applies, in order: the kill switch, PANEL_FEATURE_<NAME>, the
// disable list and the enable list.
func fromEnv(name string) (enabled bool, source string, ok bool) {
	if isTruthy(os.Getenv(envKillExperimental)) {
		return false, SourceKillSwitch, true
	}
	if raw, set := os.LookupEnv(envPrefix + strings.ToUpper(name)); set {
		if v, valid := parseBool(raw); valid {
			return v, SourceEnv, true
		}
	}
	if inList(os.Getenv(envDisable), name) {
		return false, SourceEnv, true
	}
	if inList(os.Getenv(envEnable), name) {
		return true, SourceEnv, true
	}
	return false, "", false
}

func inList(raw, name string) bool {
	for _, item := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(item), name) {
			return true
		}
	}
	return false
}

func isTruthy(raw string) bool {
	v, ok := parseBool(raw)
	return ok && v
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	}
	return false, false
}

package model

// Wire keys of the persisted options blob.
const (
	OptionVersion   = "version"
	OptionRandomAPI = "random-api"
	OptionMinLength = "min-length"
	OptionMaxLength = "max-length"
	OptionDebug     = "debug"
)

// Settings is a read-only snapshot of the resolved options, passed by value
// into the password provider.
type Settings struct {
	SchemaVersion int  `json:"version"`
	UseRemoteAPI  bool `json:"random-api"`
	MinLength     int  `json:"min-length"`
	MaxLength     int  `json:"max-length"`
	Debug         bool `json:"debug"`
}

// SettingsResponse is returned by the operator settings endpoints. Options
// carries the full stored blob, including fields this service does not know.
type SettingsResponse struct {
	Settings Settings `json:"settings"`
	Options  *Options `json:"options"`
}

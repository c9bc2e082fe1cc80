package model

import "time"

// GenerationStatus mirrors the numeric status sent to clients.
type GenerationStatus int

const (
	StatusOK    GenerationStatus = 0
	StatusError GenerationStatus = -1
)

// PasswordSource names the generator that produced (or failed to produce) a
// password. The values are part of the response contract.
type PasswordSource string

const (
	SourceRemoteService PasswordSource = "random.org"
	SourceLocalFallback PasswordSource = "wp_generate_password"
)

// GenerationResult is the outcome of a single generation request.
type GenerationResult struct {
	Status       GenerationStatus
	Password     string
	ErrorMessage string
	LengthUsed   int
	Source       PasswordSource
	Begin        time.Time
	// Diagnostics is set only for debug requests served by the remote service.
	Diagnostics *Diagnostics
}

// OK reports whether a password was produced.
func (r GenerationResult) OK() bool {
	return r.Status == StatusOK
}

// Diagnostics holds quota accounting for a remote call.
type Diagnostics struct {
	QuotaBefore    int
	QuotaAfter     int
	RemoteDuration time.Duration
}

// BitsUsed is the quota consumed by the call.
func (d Diagnostics) BitsUsed() int {
	return d.QuotaBefore - d.QuotaAfter
}

// GenerateResponse is the serialized generation result.
type GenerateResponse struct {
	Status GenerationStatus `json:"status"`
	Result string           `json:"result"`
	Debug  bool             `json:"debug"`
	Time   ResponseTime     `json:"time"`
	Length int              `json:"length"`
	API    ResponseAPI      `json:"api"`
	Bits   *int             `json:"bits,omitempty"`
}

// ResponseTime carries the generation start (unix seconds) and the
// server-side execution time in milliseconds.
type ResponseTime struct {
	Begin     int64  `json:"begin"`
	Execution *int64 `json:"execution,omitempty"`
}

// ResponseAPI names the configured source (DB) and, in debug mode, the one
// actually used.
type ResponseAPI struct {
	DB   PasswordSource `json:"db"`
	Used PasswordSource `json:"used,omitempty"`
}

// QuotaResponse reports the remote service allowance.
type QuotaResponse struct {
	Quota int  `json:"quota"`
	Limit int  `json:"limit"`
	Ready bool `json:"ready"`
}

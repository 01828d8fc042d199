package cache

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// ArtifactKey identifies the encoded output of one render.
	ArtifactKey(requestHash string, opts ArtifactKeyOpts) string
	// HandoffKey identifies a server render awaiting download.
	HandoffKey(id, format string) string
}

// ArtifactKeyOpts are the render inputs, besides the request itself, that
// change the output bytes.
type ArtifactKeyOpts struct {
	Template     string `json:"template"`
	Format       string `json:"format"`
	SettingsHash string `json:"settings_hash,omitempty"`
}

// DefaultKeyer produces "artifact:<sha256>" and "handoff:<id>.<format>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(requestHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", requestHash, opts)
}

// HandoffKey implements Keyer.
func (DefaultKeyer) HandoffKey(id, format string) string {
	return "handoff:" + id + "." + format
}

var _ Keyer = DefaultKeyer{}

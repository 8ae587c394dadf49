package config

// Default configuration values.
const (
	DefaultSchemasDir  = "schemas"
	DefaultModelsDir   = "models"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultOutput      = "auto" // table on a TTY, markdown otherwise
	DefaultHistoryFile = ".nodata_history"
)

// ProjectConfig holds the directories a project is loaded from.
type ProjectConfig struct {
	SchemasDir string `koanf:"schemas_dir"`
	ModelsDir  string `koanf:"models_dir"`
}

// ApplyDefaults fills empty fields with their defaults.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.SchemasDir == "" {
		c.SchemasDir = DefaultSchemasDir
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
}

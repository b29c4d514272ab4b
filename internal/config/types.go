package config

// Flavor selects the install path a package goes through.
type Flavor string

const (
	// Formula is the regular install path.
	Formula Flavor = ""
	// Cask is the variant install path (`--cask`).
	Cask Flavor = "cask"
)

// PackageSpec is one entry of the package list.
// - Name: package name as the package manager knows it.
// - Flavor: "" for a formula, "cask" for the variant install path.
type PackageSpec struct {
	Name   string `yaml:"name"`
	Flavor Flavor `yaml:"flavor"`
}

// IsCask reports whether the package goes through the cask install path.
func (p PackageSpec) IsCask() bool {
	return p.Flavor == Cask
}

// Brew configures the package manager and what it installs.
// - Prefix: Homebrew prefix (/opt/homebrew or /usr/local); derived from the CPU when empty.
// - InstallURL: the Homebrew install script, run only when brew is absent.
// - SafeDirectory: repository git must trust; derived from Prefix when empty.
type Brew struct {
	Prefix        string        `yaml:"prefix"`
	InstallURL    string        `yaml:"install_url"`
	SafeDirectory string        `yaml:"safe_directory"`
	Taps          []string      `yaml:"taps"`
	Packages      []PackageSpec `yaml:"packages"`
}

// Spark configures the Spark profile block.
// - Home: exported as SPARK_HOME; defaults to <prefix>/opt/apache-spark/libexec.
// - Archive: optional local Spark distribution extracted into Home before the permission fix.
type Spark struct {
	Home    string `yaml:"home"`
	Archive string `yaml:"archive"`
}

// PySpark configures the optional PySpark profile block.
type PySpark struct {
	Enabled    bool   `yaml:"enabled"`
	Driver     string `yaml:"driver"`
	DriverOpts string `yaml:"driver_opts"`
}

// Profile configures which shell profile is edited and how.
// - Path: profile file; derived from Shell when empty.
// - Shell: zsh or bash; derived from $SHELL when empty.
type Profile struct {
	Path    string  `yaml:"path"`
	Shell   string  `yaml:"shell"`
	Spark   Spark   `yaml:"spark"`
	PySpark PySpark `yaml:"pyspark"`
}

// Config is the top-level structure returned after loading the defaults and the user file.
type Config struct {
	Brew      Brew    `yaml:"brew"`
	Profile   Profile `yaml:"profile"`
	LogFile   string  `yaml:"log_file"`
	StateFile string  `yaml:"state_file"`
}

// Formulae returns the regular packages, in list order.
func (b Brew) Formulae() []PackageSpec {
	var out []PackageSpec
	for _, p := range b.Packages {
		if !p.IsCask() {
			out = append(out, p)
		}
	}
	return out
}

// Casks returns the packages that use the cask install path, in list order.
func (b Brew) Casks() []PackageSpec {
	var out []PackageSpec
	for _, p := range b.Packages {
		if p.IsCask() {
			out = append(out, p)
		}
	}
	return out
}

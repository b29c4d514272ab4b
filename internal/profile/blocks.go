package profile

import (
	"fmt"
	"path/filepath"
)

// Block markers.
const (
	RubyMarker    = "# Ruby paths"
	PythonMarker  = "# Python aliases"
	SparkMarker   = "# Spark paths"
	PySparkMarker = "# PySpark paths"
)

// Ruby puts the Homebrew ruby ahead of the system one and exposes its headers and libraries.
func Ruby(prefix string) Block {
	ruby := filepath.Join(prefix, "opt", "ruby")
	return Block{
		Name:   "ruby",
		Marker: RubyMarker,
		Stale:  []Matcher{Contains("opt/ruby")},
		Lines: []string{
			fmt.Sprintf(`export PATH="%s/bin:$PATH"`, ruby),
			fmt.Sprintf(`export LDFLAGS="-L%s/lib"`, ruby),
			fmt.Sprintf(`export CPPFLAGS="-I%s/include"`, ruby),
		},
	}
}

// Python aliases python and pip to their version 3 commands.
func Python() Block {
	return Block{
		Name:   "python",
		Marker: PythonMarker,
		Stale:  []Matcher{Prefix("alias python="), Prefix("alias pip=")},
		Lines: []string{
			`alias python="python3"`,
			`alias pip="pip3"`,
		},
	}
}

// Spark exports SPARK_HOME and puts its bin directory on PATH.
func Spark(home string) Block {
	return Block{
		Name:   "spark",
		Marker: SparkMarker,
		Stale:  []Matcher{Contains("SPARK_HOME")},
		Lines: []string{
			fmt.Sprintf(`export SPARK_HOME="%s"`, home),
			`export PATH="$SPARK_HOME/bin:$PATH"`,
		},
	}
}

// PySpark makes the pyspark shell start its driver through driver (e.g. jupyter notebook).
func PySpark(driver, driverOpts string) Block {
	return Block{
		Name:   "pyspark",
		Marker: PySparkMarker,
		Stale:  []Matcher{Contains("PYSPARK_DRIVER_PYTHON")},
		Lines: []string{
			fmt.Sprintf(`export PYSPARK_DRIVER_PYTHON="%s"`, driver),
			fmt.Sprintf(`export PYSPARK_DRIVER_PYTHON_OPTS="%s"`, driverOpts),
		},
	}
}

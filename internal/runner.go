// The runner is the entry point for the amicontained command: it loads the
// configuration, sets up the logger and it reports the CPU info of the
// process in the requested format. Its return value should be used as the
// process exit status.

package amicontained_internal

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bgp59/logrusx"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_FLAG_NAME = "config"

	OUTPUT_FORMAT_TEXT = "text"
	OUTPUT_FORMAT_JSON = "json"
	OUTPUT_FORMAT_YAML = "yaml"
)

var (
	// Build info, normally set via init() by main:
	Version string
	GitInfo string
)

// Command line args; they should be defined at package scope since the flags
// are parsed in main.
var (
	versionArg = flag.Bool(
		"version",
		false,
		FormatFlagUsage(`Print the version and exit`),
	)

	configFileArg = flag.String(
		CONFIG_FLAG_NAME,
		"",
		FormatFlagUsage(`
		Config file to load, the built-in defaults are used if
		not specified
		`),
	)

	formatArg = flag.String(
		"format",
		OUTPUT_FORMAT_TEXT,
		FormatFlagUsage(fmt.Sprintf(
			`Output format, one of %q, %q or %q`,
			OUTPUT_FORMAT_TEXT, OUTPUT_FORMAT_JSON, OUTPUT_FORMAT_YAML,
		)),
	)

	numCpusOnlyArg = flag.Bool(
		"num-cpus",
		false,
		FormatFlagUsage(`
		Print only the CPU count, or the negative error code on
		failure, the way a shell script would use it
		`),
	)

	recommendedThreadsOnlyArg = flag.Bool(
		"recommended-threads",
		false,
		FormatFlagUsage(`
		Print only the recommended thread count, or the negative
		error code on failure
		`),
	)
)

func init() {
	logrusx.EnableLoggerArgs()
}

var runnerLog = NewCompLogger("runner")

// WriteCpuInfo writes the snapshot in the given format.
func WriteCpuInfo(w io.Writer, info *CpuInfo, format string) error {
	switch format {
	case OUTPUT_FORMAT_TEXT, "":
		_, err := io.WriteString(w, info.String())
		return err
	case OUTPUT_FORMAT_JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case OUTPUT_FORMAT_YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(info); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("invalid format %q", format)
}

func Run() int {
	if !flag.Parsed() {
		flag.Parse()
	}

	if *versionArg {
		fmt.Fprintf(os.Stderr, "Version: %s, GitInfo: %s\n", Version, GitInfo)
		return 0
	}

	cfg, err := LoadConfig(*configFileArg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
		return 1
	}

	logrusx.ApplySetLoggerArgs(cfg.LoggerConfig)
	err = SetLogger(cfg.LoggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting the logger: %v\n", err)
		return 1
	}

	if err = SetConfig(cfg); err != nil {
		runnerLog.Error(err)
		return 1
	}
	q, err := GetDefaultQuerier()
	if err != nil {
		runnerLog.Error(err)
		return 1
	}

	// The single value modes mirror the int returning API:
	if *numCpusOnlyArg || *recommendedThreadsOnlyArg {
		var n int
		if *numCpusOnlyArg {
			n, err = q.NumCpus()
		} else {
			n, err = q.RecommendedThreads()
		}
		if err != nil {
			runnerLog.Error(err)
			fmt.Println(ErrorCode(err))
			return 1
		}
		fmt.Println(n)
		return 0
	}

	info, err := q.CpuInfo()
	if err != nil {
		runnerLog.Errorf("%v (code %d)", err, ErrorCode(err))
		return 1
	}
	if err = WriteCpuInfo(os.Stdout, info, *formatArg); err != nil {
		runnerLog.Error(err)
		return 1
	}
	return 0
}

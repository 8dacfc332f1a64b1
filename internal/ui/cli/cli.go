package cli

import (
	"flag"
	"io"
)

const versionString = "1.0.0"

const usageLine = "usage: glslreflect [flags] <shader.glsl>"

type cliOptions struct {
	configPath string
	format     string
	outputPath string
	watch      bool
	summary    bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("glslreflect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		io.WriteString(stderr, usageLine+"\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (defaults and GLSLREFLECT_* environment when empty)")
	fs.StringVar(&opts.format, "format", "", "Output format: json, tsv, dot, tree, mermaid (overrides output.format)")
	fs.StringVar(&opts.outputPath, "o", "", "Write output to this file instead of stdout (overrides output.path)")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate output whenever the shader or its #line files change")
	fs.BoolVar(&opts.summary, "summary", false, "Print a declaration summary to stderr")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	schemacompat "github.com/reoring/schemacompat"
	"github.com/reoring/schemacompat/i18n"
	"github.com/reoring/schemacompat/internal/logging"
	"github.com/reoring/schemacompat/registry"
	"github.com/reoring/schemacompat/schemafile"
)

const (
	exitCompatible   = 0
	exitIncompatible = 1
	exitError        = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitError
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdout, stderr)
	case "register":
		return registerCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return exitError
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "schemacompat CLI\n\nUsage:\n  schemacompat check -old old.yaml -new new.yaml [-type FORWARD] [-select definitions.User] [-validate] [-format text|json]\n  schemacompat register -store DIR -subject NAME [-version V] [-type T] [-mode warn|block] [-transitive] schema.json\n  schemacompat register -config registry.yaml -subject NAME schema.json\n\nExit status is 0 when compatible, 1 when incompatible and 2 on errors.")
}

func fatalf(w io.Writer, format string, a ...any) int {
	fmt.Fprintf(w, "error: "+format+"\n", a...)
	return exitError
}

type loadFlags struct {
	selector string
	validate bool
}

func newLoadFlags(fs *flag.FlagSet) *loadFlags {
	l := &loadFlags{}
	fs.StringVar(&l.selector, "select", "", "gjson path of the schema inside each document")
	fs.BoolVar(&l.validate, "validate", false, "reject documents that are not valid JSON Schemas")
	return l
}

func (l *loadFlags) load(path string) (*schemafile.Document, error) {
	opts := []schemafile.Option{schemafile.WithSelector(l.selector)}
	if l.validate {
		opts = append(opts, schemafile.WithMetaValidation())
	}
	return schemafile.LoadDocument(path, opts...)
}

func checkCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var oldPath, newPath, typ, format, level, lang string
	fs.StringVar(&oldPath, "old", "", "previous schema file")
	fs.StringVar(&newPath, "new", "", "candidate schema file")
	fs.StringVar(&typ, "type", "FORWARD", "BACKWARD, FORWARD or FULL")
	fs.StringVar(&format, "format", "text", "output format: text or json")
	fs.StringVar(&level, "log-level", "warn", "log level")
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	lf := newLoadFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if oldPath == "" || newPath == "" {
		fs.Usage()
		return exitError
	}
	if format != "text" && format != "json" {
		return fatalf(stderr, "unknown format %q", format)
	}
	ct, err := schemacompat.ParseCompatibilityType(typ)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	logger, err := logging.New(level)
	if err != nil {
		return fatalf(stderr, "create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	i18n.SetLanguage(lang)

	oldDoc, err := lf.load(oldPath)
	if err != nil {
		return fatalf(stderr, "load %s: %v", oldPath, err)
	}
	newDoc, err := lf.load(newPath)
	if err != nil {
		return fatalf(stderr, "load %s: %v", newPath, err)
	}
	logger.Debug("check: schemas loaded", zap.String("old", oldPath), zap.String("new", newPath), zap.Stringer("compatibility", ct))

	vs, err := schemacompat.Check(oldDoc.Schema, newDoc.Schema, ct, schemacompat.WithPropertyOrder(oldDoc.Keys, newDoc.Keys))
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	if err := writeResult(stdout, format, ct, vs); err != nil {
		return fatalf(stderr, "write result: %v", err)
	}
	if !vs.Compatible() {
		return exitIncompatible
	}
	return exitCompatible
}

type checkResult struct {
	Compatible    bool                           `json:"compatible"`
	Compatibility schemacompat.CompatibilityType `json:"compatibility"`
	Violations    schemacompat.Violations        `json:"violations"`
}

func writeResult(w io.Writer, format string, ct schemacompat.CompatibilityType, vs schemacompat.Violations) error {
	if format == "json" {
		if vs == nil {
			vs = schemacompat.Violations{}
		}
		out, err := json.MarshalIndent(checkResult{Compatible: vs.Compatible(), Compatibility: ct, Violations: vs}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	for _, v := range vs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", v.Code, v.Path, v.Message); err != nil {
			return err
		}
	}
	verdict := "compatible"
	if !vs.Compatible() {
		verdict = "incompatible"
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", verdict, ct)
	return err
}

func registerCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath, storeDir, subject, version, typ, mode, level string
	var transitive bool
	fs.StringVar(&configPath, "config", "", "registry config file (YAML)")
	fs.StringVar(&storeDir, "store", "", "schema store directory")
	fs.StringVar(&subject, "subject", "", "subject the schema belongs to")
	fs.StringVar(&version, "version", "", "version label (defaults to a UTC timestamp)")
	fs.StringVar(&typ, "type", "", "BACKWARD, FORWARD or FULL")
	fs.StringVar(&mode, "mode", "", "warn or block")
	fs.BoolVar(&transitive, "transitive", false, "check against every retained version")
	fs.StringVar(&level, "log-level", "info", "log level")
	lf := newLoadFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if subject == "" || fs.NArg() != 1 {
		fs.Usage()
		return exitError
	}

	var cfg registry.Config
	if configPath != "" {
		var err error
		if cfg, err = registry.LoadConfig(configPath); err != nil {
			return fatalf(stderr, "%v", err)
		}
	}
	// Explicit flags win over the config file.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.StoreDir = storeDir
		case "type":
			ct, err := schemacompat.ParseCompatibilityType(typ)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Compatibility = ct
		case "mode":
			cfg.Mode = registry.Mode(strings.ToLower(mode))
		case "transitive":
			cfg.Transitive = transitive
		}
	})
	if flagErr != nil {
		return fatalf(stderr, "%v", flagErr)
	}
	if version == "" {
		version = time.Now().UTC().Format("20060102T150405Z")
	}

	logger, err := logging.New(level)
	if err != nil {
		return fatalf(stderr, "create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, err := registry.New(cfg, logger)
	if err != nil {
		return fatalf(stderr, "%v", err)
	}
	doc, err := lf.load(fs.Arg(0))
	if err != nil {
		return fatalf(stderr, "load %s: %v", fs.Arg(0), err)
	}

	report, err := reg.Register(subject, version, doc.Schema)
	if report == nil && err == nil {
		fmt.Fprintf(stdout, "stored %s version %s (first version)\n", subject, version)
		return exitCompatible
	}
	if err != nil && !errors.Is(err, registry.ErrIncompatible) {
		return fatalf(stderr, "%v", err)
	}
	if werr := writeResult(stdout, "text", report.Compatibility, report.Violations()); werr != nil {
		return fatalf(stderr, "write result: %v", werr)
	}
	if !report.Stored {
		fmt.Fprintf(stdout, "rejected %s version %s\n", subject, version)
		return exitIncompatible
	}
	fmt.Fprintf(stdout, "stored %s version %s\n", subject, version)
	return exitCompatible
}

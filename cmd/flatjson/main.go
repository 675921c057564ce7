package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/flatjson"
	"github.com/reoring/flatjson/declfile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	if err := cfg.apply(); err != nil {
		fatalf("%v", err)
	}
	switch os.Args[1] {
	case "tree":
		err = treeCmd(os.Args[2:])
	case "read":
		err = readCmd(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "flatjson CLI\n\nUsage:\n  flatjson tree -f decl.yaml\n  flatjson read -f decl.yaml [input.json]\n\nEnvironment:\n  FLATJSON_DRIVER=go-json|encoding/json\n  FLATJSON_MAX_DEPTH, FLATJSON_MAX_BYTES\n  FLATJSON_DUPLICATE_KEYS=ignore|warn|error\n  FLATJSON_LANG=en|ja")
}

func loadTree(args []string, name string) (*flatjson.Tree, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var file string
	fs.StringVar(&file, "f", "", "declaration file (YAML)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	decl, err := declfile.LoadFile(file)
	if err != nil {
		return nil, nil, err
	}
	tree, err := decl.Build(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	return tree, fs, nil
}

func treeCmd(args []string) error {
	tree, _, err := loadTree(args, "tree")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(os.Stdout)
	for _, line := range strings.SplitAfter(tree.String(), "\n") {
		if line == "" {
			continue
		}
		if key, rest, ok := strings.Cut(line, " -> "); ok {
			fmt.Fprintf(w, "%s -> %s", keyColor.Sprint(key), rest)
			continue
		}
		fmt.Fprint(w, line)
	}
	return w.Flush()
}

func readCmd(cfg Config, args []string) error {
	tree, fs, err := loadTree(args, "read")
	if err != nil {
		return err
	}
	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	ropt, err := cfg.readOpt()
	if err != nil {
		return err
	}
	r, err := flatjson.NewReader(tree, recordAssembly(tree), flatjson.WithReadOpt(ropt))
	if err != nil {
		return err
	}
	rec, err := r.ReadFrom(context.Background(), bufio.NewReader(in))
	if err != nil {
		if re, ok := flatjson.AsReadError(err); ok && re.Path != "" {
			return fmt.Errorf("%w (%s)", err, re.Code)
		}
		return err
	}
	var out any
	if rec != nil {
		out = *rec
	}
	b, err := j.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

// recordAssembly collects the declared fields into a map keyed by field name.
func recordAssembly(tree *flatjson.Tree) flatjson.Assembly[map[string]any] {
	return flatjson.Construct(func(args []any) (map[string]any, error) {
		rec := make(map[string]any, len(args))
		for _, leaf := range tree.Fields {
			v := args[leaf.Index]
			if raw, ok := v.(flatjson.RawJSON); ok {
				if raw == "" {
					v = nil
				} else {
					v = j.RawMessage(raw)
				}
			}
			rec[leaf.Name] = v
		}
		return rec, nil
	})
}

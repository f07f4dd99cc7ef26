package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/expression-evaluator/internal/batch"
	"github.com/karupanerura/expression-evaluator/internal/expression"
	"github.com/karupanerura/expression-evaluator/internal/server"
	"github.com/karupanerura/expression-evaluator/internal/types"
	"github.com/mattn/go-isatty"
)

type Option struct {
	JSON  bool `long:"json" description:"[OPTIONAL] Print results as JSON"`
	Debug bool `long:"debug" description:"[OPTIONAL] Dump tokens and expression trees while parsing"`

	Numerical evaluateCommand `command:"numerical" description:"Evaluate an arithmetic expression (+ - * / ^)"`
	Logical   evaluateCommand `command:"logical" description:"Evaluate a propositional logic expression over T/F (& | > < =)"`
	Batch     batchCommand    `command:"batch" description:"Evaluate a suite of expressions from a YAML or JSON file"`
	Serve     serveCommand    `command:"serve" description:"Serve the evaluation API over HTTP"`
}

type evaluateCommand struct {
	Args struct {
		Expression string `positional-arg-name:"expression" description:"Expression to evaluate"`
	} `positional-args:"yes" required:"yes"`
}

type batchCommand struct {
	File        string `short:"f" long:"file" description:"[REQUIRED] Suite file (.yaml, .yml or .json)" required:"true"`
	Parallelism int    `short:"p" long:"parallelism" description:"[OPTIONAL] Max number of cases evaluated at once (0 means unlimited)" default:"0"`
}

type serveCommand struct {
	Listen string `short:"l" long:"listen" description:"[REQUIRED] Listen host and port" required:"true"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}

	switch parser.Active.Name {
	case "numerical":
		return evaluate(&opt, expression.Numerical, opt.Numerical.Args.Expression, stdout, stderr)
	case "logical":
		return evaluate(&opt, expression.Logical, opt.Logical.Args.Expression, stdout, stderr)
	case "batch":
		return runBatch(&opt, stdout, stderr)
	case "serve":
		if err := serveHTTP(opt.Serve.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	default:
		parser.WriteHelp(stdout)
		return 1
	}
}

func evaluate(opt *Option, domain expression.Domain, source string, stdout, stderr io.Writer) int {
	parseExpr := expression.ParseExpr
	if opt.Debug {
		parseExpr = expression.ParseExprWithDebugOutput
	}

	ret, err := func() (expression.Value, error) {
		expr, err := parseExpr(source, domain)
		if err != nil {
			return nil, err
		}
		return expr.Evaluate()
	}()
	if err != nil {
		var exception types.Exception
		if errors.As(err, &exception) {
			if _, err = fmt.Fprintln(stderr, exception.Error()); err != nil {
				log.Printf("failed to dump expression error: %v", err)
			}
			if err = dumpJSON(stderr, exception.Exception()); err != nil {
				log.Printf("failed to dump expression error as JSON: %v", err)
			}
		} else {
			log.Printf("failed to evaluate expression: %v", err)
		}
		return 1
	}

	if opt.JSON {
		err = dumpJSON(stdout, map[string]any{
			"mode":       domain.String(),
			"expression": source,
			"result":     ret,
		})
	} else {
		_, err = fmt.Fprintln(stdout, ret.String())
	}
	if err != nil {
		log.Printf("failed to dump result: %v", err)
		return 1
	}
	return 0
}

func runBatch(opt *Option, stdout, stderr io.Writer) int {
	suite, err := loadSuite(opt.Batch.File)
	if err != nil {
		log.Printf("failed to load suite: %v", err)
		return 1
	}

	results, err := suite.Run(context.Background(), opt.Batch.Parallelism)
	if err != nil {
		log.Printf("failed to run suite: %v", err)
		return 1
	}

	if opt.JSON {
		if err = dumpJSON(stdout, map[string]any{"results": results}); err != nil {
			log.Printf("failed to dump results: %v", err)
			return 1
		}
	} else {
		for _, r := range results {
			if r.Passed {
				fmt.Fprintf(stdout, "PASS\t%s\t%s\t%v\n", r.Name, r.Expr, valueOrError(r))
			} else {
				fmt.Fprintf(stdout, "FAIL\t%s\t%s\t%s\n", r.Name, r.Expr, r.Reason)
			}
		}
	}

	if failed := batch.Failed(results); len(failed) != 0 {
		fmt.Fprintf(stderr, "%d of %d cases failed\n", len(failed), len(results))
		return 1
	}
	return 0
}

func valueOrError(r *batch.Result) any {
	if r.Err != nil {
		return r.Err
	}
	return r.Value
}

func loadSuite(filePath string) (*batch.Suite, error) {
	var parseSuite func(io.Reader) (*batch.Suite, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseSuite = batch.ParseSuiteJSON
	case ".yaml", ".yml":
		parseSuite = batch.ParseSuiteYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	suite, err := parseSuite(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseSuite: %w", err)
	}
	return suite, nil
}

func serveHTTP(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}

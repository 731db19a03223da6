package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const commandName = "storeadm"

// queryValue is a repeatable flag.Value collecting key=value query parameters.
type queryValue struct {
	vals url.Values
}

func (v *queryValue) String() string {
	if v == nil || len(v.vals) == 0 {
		return ""
	}
	return v.vals.Encode()
}

func (v *queryValue) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected query parameter of form key=value but got %s", s)
	}
	if v.vals == nil {
		v.vals = url.Values{}
	}
	v.vals.Add(key, val)
	return nil
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	endpoint   string
	method     string
	data       string
	uploadPath string
	field      string
	timeout    time.Duration
	query      url.Values
}

func newOptionsFromFlags(argv []string) (*cliOptions, error) {
	flagSet := flag.NewFlagSet(commandName, flag.ContinueOnError)

	opts := &cliOptions{}
	queryVar := &queryValue{}

	flagSet.StringVar(
		&opts.endpoint,
		"endpoint",
		"",
		"admin api endpoint, e.g. orders or products/42")
	flagSet.StringVar(
		&opts.method,
		"method",
		http.MethodGet,
		"HTTP method: GET, POST, PUT or DELETE (ignored with -upload)")
	flagSet.StringVar(
		&opts.data,
		"data",
		"",
		"JSON request body")
	flagSet.StringVar(
		&opts.uploadPath,
		"upload",
		"",
		"path of a local file to POST as multipart upload")
	flagSet.StringVar(
		&opts.field,
		"field",
		"file",
		"multipart field name used with -upload")
	flagSet.DurationVar(
		&opts.timeout,
		"timeout",
		0,
		"request timeout, e.g. 30s (default taken from config)")
	flagSet.Var(
		queryVar,
		"param",
		"query parameter as key=value, repeatable")

	if err := flagSet.Parse(argv); err != nil {
		return nil, err
	}
	opts.query = queryVar.vals

	opts.endpoint = strings.TrimSpace(opts.endpoint)
	if opts.endpoint == "" {
		return nil, fmt.Errorf("-endpoint is required")
	}

	opts.method = strings.ToUpper(strings.TrimSpace(opts.method))
	switch opts.method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported method %q", opts.method)
	}

	if opts.uploadPath != "" && opts.data != "" {
		return nil, fmt.Errorf("-data cannot be combined with -upload")
	}

	return opts, nil
}

// Command storeadm performs one-off calls against a ProStore admin API using
// the credentials from the environment, printing the JSON response to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prostore-hq/prostore-events-bridge/internal/config"
	"github.com/prostore-hq/prostore-events-bridge/pkg/adminapi"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandName, err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	opts, err := newOptionsFromFlags(argv)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	timeout := cfg.HTTPTimeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	client, err := adminapi.New(adminapi.Config{
		URL:          cfg.StoreURL,
		UserID:       cfg.StoreUserID,
		PrivateToken: cfg.StorePrivateToken,
		Timeout:      timeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out any
	if opts.uploadPath != "" {
		err = upload(ctx, client, opts, &out)
	} else {
		err = call(ctx, client, opts, &out)
	}
	if err != nil {
		return err
	}

	return printJSON(os.Stdout, out)
}

func call(ctx context.Context, client *adminapi.Client, opts *cliOptions, out any) error {
	reqOpts := &adminapi.RequestOptions{Query: opts.query}
	if opts.data != "" {
		if !json.Valid([]byte(opts.data)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		reqOpts.Body = json.RawMessage(opts.data)
	}

	switch opts.method {
	case http.MethodGet:
		return client.Get(ctx, opts.endpoint, reqOpts, out)
	case http.MethodPost:
		return client.Post(ctx, opts.endpoint, reqOpts, out)
	case http.MethodPut:
		return client.Put(ctx, opts.endpoint, reqOpts, out)
	case http.MethodDelete:
		return client.Delete(ctx, opts.endpoint, reqOpts, out)
	}
	return fmt.Errorf("unsupported method %q", opts.method)
}

func upload(ctx context.Context, client *adminapi.Client, opts *cliOptions, out any) error {
	f, err := os.Open(opts.uploadPath)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	return client.UploadFile(ctx, opts.endpoint, opts.field, filepath.Base(opts.uploadPath), f, out)
}

func printJSON(w io.Writer, out any) error {
	if out == nil {
		return nil
	}
	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(enc))
	return err
}

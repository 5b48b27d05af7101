package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmgilman/go/imgcache"
	"github.com/jmgilman/go/imgcache/budget"
	"github.com/jmgilman/go/imgcache/errors"
)

type result struct {
	uri   string
	image *imgcache.Image
	err   error
}

func (r result) String() string {
	if r.err != nil {
		return fmt.Sprintf("%s\terror\t%s\t%v", r.uri, errors.GetCode(r.err), r.err)
	}
	return fmt.Sprintf("%s\tready\t%dx%d\t%s", r.uri, r.image.Width(), r.image.Height(), r.image.Digest())
}

type jsonResult struct {
	URI    string                `json:"uri"`
	State  string                `json:"state"`
	Width  int                   `json:"width,omitempty"`
	Height int                   `json:"height,omitempty"`
	Digest string                `json:"digest,omitempty"`
	Error  *errors.ErrorResponse `json:"error,omitempty"`
}

func (r result) JSON() jsonResult {
	if r.err != nil {
		return jsonResult{URI: r.uri, State: "error", Error: errors.ToJSON(r.err)}
	}
	return jsonResult{
		URI:    r.uri,
		State:  "ready",
		Width:  r.image.Width(),
		Height: r.image.Height(),
		Digest: r.image.Digest().String(),
	}
}

// writeResults prints results as tab-separated lines or, for format "json",
// as one JSON object per line.
func writeResults(w io.Writer, results []result, format string) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if format == "json" {
			if err := enc.Encode(r.JSON()); err != nil {
				return errors.Wrapf(err, errors.CodeInternal, "failed to encode result for %s", r.uri)
			}
			continue
		}
		fmt.Fprintln(w, r.String())
	}
	return nil
}

// pollAll loads every URI until it is ready or failed. URIs still pending
// after timeout fail with CodeTimeout.
func pollAll(ctx context.Context, cache imgcache.Loader, trimmer *budget.Trimmer, uris []string,
	interval, timeout time.Duration,
) []result {
	results := make([]result, len(uris))
	pending := make(map[int]bool, len(uris))
	for i, u := range uris {
		results[i].uri = u
		pending[i] = true
	}

	deadline := time.Now().Add(timeout)
	for {
		for i := range pending {
			out, err := cache.Load(ctx, uris[i], imgcache.DefaultSizeHint)
			if err == nil && out.Pending() {
				continue
			}
			results[i].image, results[i].err = out.Image, err
			delete(pending, i)
			if trimmer != nil && err == nil {
				trimmer.Touch(uris[i])
			}
		}
		if trimmer != nil {
			_, _ = trimmer.Trim(ctx)
		}
		if len(pending) == 0 {
			return results
		}

		var stop error
		if time.Now().After(deadline) {
			stop = errors.New(errors.CodeTimeout, "image still pending")
		} else {
			select {
			case <-ctx.Done():
				stop = errors.Wrap(ctx.Err(), errors.CodeTimeout, "polling cancelled")
			case <-time.After(interval):
			}
		}
		if stop != nil {
			for i := range pending {
				results[i].err = stop
			}
			return results
		}
	}
}

package api

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"logstat/adapters/logfile"
	"logstat/app"
	"logstat/internal/config"
	"logstat/internal/errors"
	"logstat/ports"
)

// summaryParams is a decoded POST /v1/summary body
type summaryParams struct {
	Options logfile.Options
	Request app.SummaryRequest
}

// parseSummaryRequest extracts the summary options from a JSON body. Missing
// keys fall back to defaults; runs are either raw log strings or
// {"name": ..., "log": ...} objects.
func parseSummaryRequest(body []byte, defaults config.SummaryConfig) (*summaryParams, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("request body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, errors.InvalidInput("request body must be a JSON object")
	}

	params := &summaryParams{
		Options: logfile.Options{
			Sep:     defaults.Sep,
			Comment: defaults.Comment,
			State:   defaults.State,
		},
		Request: app.SummaryRequest{
			Proportion: defaults.HPD,
			Workers:    defaults.Workers,
		},
	}

	var err error
	if params.Request.Proportion, err = numberField(doc, "hpd", defaults.HPD); err != nil {
		return nil, err
	}
	if params.Request.BurnIn, err = floatList(doc, "burnin"); err != nil {
		return nil, err
	}
	if params.Request.SkipRows, err = intList(doc, "skip_rows"); err != nil {
		return nil, err
	}
	workers, err := numberField(doc, "workers", float64(defaults.Workers))
	if err != nil {
		return nil, err
	}
	if workers < 1 || workers != math.Trunc(workers) {
		return nil, errors.InvalidArgument("workers must be a positive integer, got %v", workers)
	}
	params.Request.Workers = int(workers)
	if v := doc.Get("skip_failed"); v.Exists() {
		if v.Type != gjson.True && v.Type != gjson.False {
			return nil, errors.InvalidArgument("skip_failed must be a boolean")
		}
		params.Request.SkipFailedRuns = v.Bool()
	}

	if params.Options.Sep, err = stringField(doc, "sep", defaults.Sep); err != nil {
		return nil, err
	}
	if params.Options.Comment, err = stringField(doc, "comment", defaults.Comment); err != nil {
		return nil, err
	}
	if params.Options.State, err = stringField(doc, "state", defaults.State); err != nil {
		return nil, err
	}
	if params.Options.Include, err = stringList(doc, "include"); err != nil {
		return nil, err
	}
	if params.Options.Exclude, err = stringList(doc, "exclude"); err != nil {
		return nil, err
	}

	if params.Request.Sources, err = runSources(doc.Get("runs")); err != nil {
		return nil, err
	}
	return params, nil
}

func runSources(runs gjson.Result) ([]ports.RunSource, error) {
	if !runs.Exists() || runs.Type == gjson.Null {
		return nil, errors.EmptyInput("runs is required")
	}
	if !runs.IsArray() {
		return nil, errors.InvalidArgument("runs must be an array")
	}

	items := runs.Array()
	if len(items) == 0 {
		return nil, errors.EmptyInput("runs is empty")
	}
	sources := make([]ports.RunSource, 0, len(items))
	for i, item := range items {
		source := ports.RunSource{Name: fmt.Sprintf("run%d", i+1)}
		var text string
		switch {
		case item.Type == gjson.String:
			text = item.String()
		case item.IsObject():
			if name := item.Get("name"); name.Type == gjson.String && name.String() != "" {
				source.Name = name.String()
			}
			log := item.Get("log")
			if log.Type != gjson.String {
				return nil, errors.InvalidArgument("runs[%d].log must be a string", i)
			}
			text = log.String()
		default:
			return nil, errors.InvalidArgument("runs[%d] must be a string or an object", i)
		}
		if text == "" {
			return nil, errors.EmptyInput("runs[%d] is empty", i)
		}
		source.Data = []byte(text)
		sources = append(sources, source)
	}
	return sources, nil
}

func numberField(doc gjson.Result, key string, def float64) (float64, error) {
	v := doc.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return def, nil
	}
	if v.Type != gjson.Number {
		return 0, errors.InvalidArgument("%s must be a number", key)
	}
	return v.Float(), nil
}

func stringField(doc gjson.Result, key, def string) (string, error) {
	v := doc.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return def, nil
	}
	if v.Type != gjson.String {
		return "", errors.InvalidArgument("%s must be a string", key)
	}
	return v.String(), nil
}

// list returns the elements of an array field; a bare scalar counts as a
// one-element list
func list(doc gjson.Result, key string) []gjson.Result {
	v := doc.Get(key)
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return nil
	case v.IsArray():
		return v.Array()
	default:
		return []gjson.Result{v}
	}
}

func floatList(doc gjson.Result, key string) ([]float64, error) {
	var out []float64
	for i, item := range list(doc, key) {
		if item.Type != gjson.Number {
			return nil, errors.InvalidArgument("%s[%d] must be a number", key, i)
		}
		out = append(out, item.Float())
	}
	return out, nil
}

func intList(doc gjson.Result, key string) ([]int, error) {
	var out []int
	for i, item := range list(doc, key) {
		if item.Type != gjson.Number || item.Float() != math.Trunc(item.Float()) {
			return nil, errors.InvalidArgument("%s[%d] must be an integer", key, i)
		}
		out = append(out, int(item.Int()))
	}
	return out, nil
}

func stringList(doc gjson.Result, key string) ([]string, error) {
	var out []string
	for i, item := range list(doc, key) {
		if item.Type != gjson.String {
			return nil, errors.InvalidArgument("%s[%d] must be a string", key, i)
		}
		out = append(out, item.String())
	}
	return out, nil
}

package graphdb

import (
	"context"
	"errors"
)

// Client is the subset of a graph database the network repository needs.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the records returned by one statement.
type Result struct {
	Records []Record
}

type Record map[string]any

type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

var ErrMissingURI = errors.New("graph URI is required")

// Int64 reads an integer column, accepting any numeric type the driver or a
// test double may produce.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Float64 reads a floating point column.
func (r Record) Float64(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

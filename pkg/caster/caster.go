// Package caster turns the string payloads carried by pub/sub topics and
// websocket frames into typed values and back.
package caster

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type ChannelCaster[T any] interface {
	From(string) (T, error)
	To(T) (string, error)
}

// JSONChannelCaster encodes payloads as JSON. The zero value is ready to use.
type JSONChannelCaster[T any] struct{}

func (JSONChannelCaster[T]) From(payload string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, errors.Wrap(err, "decoding payload")
	}
	return v, nil
}

func (JSONChannelCaster[T]) To(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encoding payload")
	}
	return string(data), nil
}

// Copyright 2026 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transform

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

const defaultTokenLength = 32

var hexChars = []rune("0123456789abcdef")

var base64Chars = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

var base64URLChars = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_")

// rndChars returns a random string of n runes drawn from alphabet.
func rndChars(n int, alphabet []rune) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = alphabet[gofakeit.IntRange(0, len(alphabet)-1)]
	}
	return string(out)
}

// HexTokenTransformer produces a random lowercase hex string of Len
// characters.
type HexTokenTransformer struct {
	Len int `yaml:"len"`
}

func (t HexTokenTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	return rndChars(t.Len, hexChars), nil
}

// Base64TokenTransformer produces a random base64-alphabet string of
// Len characters total, the last Pad of which are literal `=` padding
// characters.
type Base64TokenTransformer struct {
	Len int `yaml:"len"`
	Pad int `yaml:"pad"`
}

func (t Base64TokenTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	padding, err := repeatPad("=", t.Pad)
	if err != nil {
		return "", fmt.Errorf("base64_token: %w", err)
	}
	return rndChars(t.Len-t.Pad, base64Chars) + padding, nil
}

// Base64URLTokenTransformer is Base64TokenTransformer's URL-safe
// variant: '-'/'_' in place of '+'/'/', and the padding character
// rendered as the percent-encoded sequence `%3D` rather than a literal
// `=`, since `=` is not a valid character in a URL path/query segment.
type Base64URLTokenTransformer struct {
	Len int `yaml:"len"`
	Pad int `yaml:"pad"`
}

func (t Base64URLTokenTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	padding, err := repeatPad("%3D", t.Pad)
	if err != nil {
		return "", fmt.Errorf("base64url_token: %w", err)
	}
	return rndChars(t.Len-t.Pad, base64URLChars) + padding, nil
}

func repeatPad(unit string, pad int) (string, error) {
	switch pad {
	case 0:
		return "", nil
	case 1:
		return unit, nil
	case 2:
		return unit + unit, nil
	default:
		return "", fmt.Errorf("incorrect padding %d", pad)
	}
}

// UUIDTransformer produces a random v4 UUID.
type UUIDTransformer struct{}

func (UUIDTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	return uuid.NewString(), nil
}

func init() {
	Register("hex_token", func(node any, _ InitContext) (Transformer, error) {
		t := HexTokenTransformer{Len: defaultTokenLength}
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})

	Register("base64_token", func(node any, _ InitContext) (Transformer, error) {
		t := Base64TokenTransformer{Len: defaultTokenLength}
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})

	Register("base64url_token", func(node any, _ InitContext) (Transformer, error) {
		t := Base64URLTokenTransformer{Len: defaultTokenLength}
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})

	Register("uuid", func(_ any, _ InitContext) (Transformer, error) {
		return UUIDTransformer{}, nil
	})
}

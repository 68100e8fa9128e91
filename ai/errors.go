// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import "errors"

var (
	// ErrDimensionMismatch indicates an embedding service returned a vector
	// of the wrong dimensionality. Mixing dimensions would silently corrupt
	// similarity scores, so this is always a hard error.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRateLimited indicates every configured model refused the request
	// for quota reasons. Callers treat this as transient.
	ErrRateLimited = errors.New("rate limited by model provider")

	// ErrNoSuggestions indicates the suggestion model produced no usable
	// output after all parse retries.
	ErrNoSuggestions = errors.New("no usable reference suggestions")
)

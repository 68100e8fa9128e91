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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRef indicates a Ref failed validation.
	ErrInvalidRef = errors.New("invalid reference")

	// ErrInvalidVerse indicates a Verse failed validation.
	ErrInvalidVerse = errors.New("invalid verse")

	// ErrInvalidEdge indicates a CrossRefEdge failed validation.
	ErrInvalidEdge = errors.New("invalid cross-reference edge")

	// ErrEmptyBook indicates the Book field is empty.
	ErrEmptyBook = errors.New("book code cannot be empty")

	// ErrInvalidChapter indicates a chapter number below 1.
	ErrInvalidChapter = errors.New("chapter must be positive")

	// ErrInvalidVerseNumber indicates a verse number below 1.
	ErrInvalidVerseNumber = errors.New("verse must be positive")

	// ErrInvalidVerseRange indicates the range end precedes the range start.
	ErrInvalidVerseRange = errors.New("verse range end cannot precede start")

	// ErrEmptyTranslation indicates the Translation field is empty.
	ErrEmptyTranslation = errors.New("translation cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidWeight indicates an edge weight outside (0, 1].
	ErrInvalidWeight = errors.New("edge weight must be in (0, 1]")
)

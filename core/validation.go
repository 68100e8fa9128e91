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

import "fmt"

// ValidateRef validates a Ref according to domain rules.
//
// Validation rules:
//   - Book must not be empty
//   - Chapter and Verse must be positive
//   - VerseEnd, when set, must not precede Verse
func ValidateRef(ref Ref) error {
	if ref.Book == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRef, ErrEmptyBook)
	}
	if ref.Chapter < 1 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidRef, ErrInvalidChapter, ref.Chapter)
	}
	if ref.Verse < 1 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidRef, ErrInvalidVerseNumber, ref.Verse)
	}
	if ref.VerseEnd != 0 && ref.VerseEnd < ref.Verse {
		return fmt.Errorf("%w: %w (%d-%d)", ErrInvalidRef, ErrInvalidVerseRange, ref.Verse, ref.VerseEnd)
	}
	return nil
}

// ValidateVerse validates a stored Verse according to domain rules.
//
// Validation rules:
//   - Ref must be valid
//   - Translation must not be empty
//   - Text must not be empty
//
// NOT validated (populated by the indexing pipeline):
//   - Embedding (can be empty until the verse is embedded)
func ValidateVerse(verse *Verse) error {
	if verse == nil {
		return fmt.Errorf("%w: verse is nil", ErrInvalidVerse)
	}
	if err := ValidateRef(verse.Ref); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, err)
	}
	if verse.Translation == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyTranslation)
	}
	if verse.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyText)
	}
	return nil
}

// ValidateEdge validates a CrossRefEdge according to domain rules.
//
// Validation rules:
//   - Source and Target must be valid single-verse references
//   - Weight must be in (0, 1]
func ValidateEdge(edge CrossRefEdge) error {
	if err := ValidateRef(edge.Source); err != nil {
		return fmt.Errorf("%w: source: %w", ErrInvalidEdge, err)
	}
	if err := ValidateRef(edge.Target); err != nil {
		return fmt.Errorf("%w: target: %w", ErrInvalidEdge, err)
	}
	if edge.Weight <= 0 || edge.Weight > 1 {
		return fmt.Errorf("%w: %w (got %g)", ErrInvalidEdge, ErrInvalidWeight, edge.Weight)
	}
	return nil
}

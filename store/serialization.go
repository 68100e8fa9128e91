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


package store

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/versecontext/core"
)

// Hand-written MUS serializers for the stored record types. The wire layout
// is a straight field-order encoding: strings are length-prefixed, ints are
// varint, float32s are fixed-width raw values.

// RefSer serializes core.Ref.
var RefSer = refSer{}

type refSer struct{}

func (refSer) Marshal(v core.Ref, bs []byte) (n int) {
	n = ord.String.Marshal(v.Book, bs)
	n += varint.Int.Marshal(v.Chapter, bs[n:])
	n += varint.Int.Marshal(v.Verse, bs[n:])
	n += varint.Int.Marshal(v.VerseEnd, bs[n:])
	return n
}

func (refSer) Unmarshal(bs []byte) (v core.Ref, n int, err error) {
	var n1 int
	if v.Book, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Chapter, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Verse, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.VerseEnd, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (refSer) Size(v core.Ref) (size int) {
	size = ord.String.Size(v.Book)
	size += varint.Int.Size(v.Chapter)
	size += varint.Int.Size(v.Verse)
	size += varint.Int.Size(v.VerseEnd)
	return size
}

// VerseSer serializes core.Verse.
var VerseSer = verseSer{}

type verseSer struct{}

func (verseSer) Marshal(v core.Verse, bs []byte) (n int) {
	n = RefSer.Marshal(v.Ref, bs)
	n += ord.String.Marshal(v.Translation, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(len(v.Embedding), bs[n:])
	for _, f := range v.Embedding {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (verseSer) Unmarshal(bs []byte) (v core.Verse, n int, err error) {
	var n1 int
	if v.Ref, n, err = RefSer.Unmarshal(bs); err != nil {
		return
	}
	if v.Translation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length < 0 {
		err = fmt.Errorf("%w: negative embedding length %d", ErrSerializationFailed, length)
		return
	}
	if length > 0 {
		v.Embedding = make([]float32, length)
		for i := 0; i < length; i++ {
			if v.Embedding[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	return
}

func (verseSer) Size(v core.Verse) (size int) {
	size = RefSer.Size(v.Ref)
	size += ord.String.Size(v.Translation)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(len(v.Embedding))
	for _, f := range v.Embedding {
		size += raw.Float32.Size(f)
	}
	return size
}

// EdgeSer serializes core.CrossRefEdge.
var EdgeSer = edgeSer{}

type edgeSer struct{}

func (edgeSer) Marshal(v core.CrossRefEdge, bs []byte) (n int) {
	n = RefSer.Marshal(v.Source, bs)
	n += RefSer.Marshal(v.Target, bs[n:])
	n += raw.Float32.Marshal(v.Weight, bs[n:])
	return n
}

func (edgeSer) Unmarshal(bs []byte) (v core.CrossRefEdge, n int, err error) {
	var n1 int
	if v.Source, n, err = RefSer.Unmarshal(bs); err != nil {
		return
	}
	if v.Target, n1, err = RefSer.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Weight, n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (edgeSer) Size(v core.CrossRefEdge) (size int) {
	size = RefSer.Size(v.Source)
	size += RefSer.Size(v.Target)
	size += raw.Float32.Size(v.Weight)
	return size
}

// verseContextSer serializes core.VerseContext for cached result snapshots.
type verseContextSer struct{}

func (verseContextSer) Marshal(v core.VerseContext, bs []byte) (n int) {
	n = ord.String.Marshal(v.Reference, bs)
	n += ord.String.Marshal(v.Translation, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(len(v.Original), bs[n:])
	for _, w := range v.Original {
		n += ord.String.Marshal(w.Word, bs[n:])
		n += ord.String.Marshal(w.StrongsID, bs[n:])
		n += ord.String.Marshal(w.Gloss, bs[n:])
		n += ord.String.Marshal(w.Transliteration, bs[n:])
	}
	n += ord.Bool.Marshal(v.IsCrossReference, bs[n:])
	return n
}

func (verseContextSer) Unmarshal(bs []byte) (v core.VerseContext, n int, err error) {
	var n1 int
	if v.Reference, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Translation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length < 0 {
		err = fmt.Errorf("%w: negative tag count %d", ErrSerializationFailed, length)
		return
	}
	if length > 0 {
		v.Original = make([]core.OriginalWord, length)
		for i := 0; i < length; i++ {
			w := &v.Original[i]
			if w.Word, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
			if w.StrongsID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
			if w.Gloss, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
			if w.Transliteration, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	if v.IsCrossReference, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (v verseContextSer) Size(vc core.VerseContext) (size int) {
	size = ord.String.Size(vc.Reference)
	size += ord.String.Size(vc.Translation)
	size += ord.String.Size(vc.Text)
	size += varint.Int.Size(len(vc.Original))
	for _, w := range vc.Original {
		size += ord.String.Size(w.Word)
		size += ord.String.Size(w.StrongsID)
		size += ord.String.Size(w.Gloss)
		size += ord.String.Size(w.Transliteration)
	}
	size += ord.Bool.Size(vc.IsCrossReference)
	return size
}

// MarshalVerse serializes a Verse to bytes.
func MarshalVerse(verse *core.Verse) []byte {
	buf := make([]byte, VerseSer.Size(*verse))
	VerseSer.Marshal(*verse, buf)
	return buf
}

// UnmarshalVerse deserializes a Verse from bytes.
func UnmarshalVerse(data []byte) (*core.Verse, error) {
	verse, _, err := VerseSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &verse, nil
}

// MarshalEdge serializes a CrossRefEdge to bytes.
func MarshalEdge(edge core.CrossRefEdge) []byte {
	buf := make([]byte, EdgeSer.Size(edge))
	EdgeSer.Marshal(edge, buf)
	return buf
}

// UnmarshalEdge deserializes a CrossRefEdge from bytes.
func UnmarshalEdge(data []byte) (core.CrossRefEdge, error) {
	edge, _, err := EdgeSer.Unmarshal(data)
	return edge, err
}

// MarshalSnapshot serializes an assembled result set for caching.
func MarshalSnapshot(verses []*core.VerseContext) []byte {
	var ser verseContextSer
	size := varint.Int.Size(len(verses))
	for _, vc := range verses {
		size += ser.Size(*vc)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(verses), buf)
	for _, vc := range verses {
		n += ser.Marshal(*vc, buf[n:])
	}
	return buf
}

// UnmarshalSnapshot deserializes a cached result set.
func UnmarshalSnapshot(data []byte) ([]*core.VerseContext, error) {
	var ser verseContextSer
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative snapshot length %d", ErrSerializationFailed, length)
	}
	verses := make([]*core.VerseContext, 0, length)
	for i := 0; i < length; i++ {
		vc, n1, err := ser.Unmarshal(data[n:])
		if err != nil {
			return nil, err
		}
		n += n1
		verses = append(verses, &vc)
	}
	return verses, nil
}

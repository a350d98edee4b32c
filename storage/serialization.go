// Copyright 2025 Halcyon Systems
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


package storage

import (
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-composed MUS serializers for the domain types. Field order is part of
// the on-disk format; append new fields at the end only.
var (
	// IDMUS serializes core.ID.
	IDMUS = idSer{}
	// TimeMUS serializes time.Time as Unix microseconds, UTC on the way out.
	TimeMUS = timeSer{}
	// RecordMUS serializes core.Record.
	RecordMUS = recordSer{}
	// EmbeddingEntryMUS serializes core.EmbeddingEntry.
	EmbeddingEntryMUS = entrySer{}
	// CheckpointMUS serializes core.Checkpoint.
	CheckpointMUS = checkpointSer{}

	stringsMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS  = ord.NewSliceSer[float32](varint.Float32)
)

var (
	_ mus.Serializer[core.ID]             = IDMUS
	_ mus.Serializer[time.Time]           = TimeMUS
	_ mus.Serializer[core.Record]         = RecordMUS
	_ mus.Serializer[core.EmbeddingEntry] = EmbeddingEntryMUS
	_ mus.Serializer[core.Checkpoint]     = CheckpointMUS
)

type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type recordSer struct{}

func (recordSer) Marshal(r core.Record, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += varint.Int.Marshal(int(r.SourceType), bs[n:])
	n += ord.String.Marshal(r.SourceName, bs[n:])
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.BodyExcerpt, bs[n:])
	n += ord.String.Marshal(r.URL, bs[n:])
	n += TimeMUS.Marshal(r.PublishedAt, bs[n:])
	n += varint.Int64.Marshal(r.PopularitySignal, bs[n:])
	n += stringsMUS.Marshal(r.Categories, bs[n:])
	n += ord.Bool.Marshal(r.IsBreakingChange, bs[n:])
	n += varint.Float64.Marshal(r.Score, bs[n:])
	n += TimeMUS.Marshal(r.FetchedAt, bs[n:])
	return n
}

func (recordSer) Unmarshal(bs []byte) (r core.Record, n int, err error) {
	var n1 int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	var st int
	if st, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.SourceType = core.SourceType(st)
	n += n1
	if r.SourceName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.BodyExcerpt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.URL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.PublishedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.PopularitySignal, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Categories, n1, err = stringsMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.IsBreakingChange, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Score, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.FetchedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return r, n, nil
}

func (recordSer) Size(r core.Record) (size int) {
	size = IDMUS.Size(r.Id)
	size += varint.Int.Size(int(r.SourceType))
	size += ord.String.Size(r.SourceName)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.BodyExcerpt)
	size += ord.String.Size(r.URL)
	size += TimeMUS.Size(r.PublishedAt)
	size += varint.Int64.Size(r.PopularitySignal)
	size += stringsMUS.Size(r.Categories)
	size += ord.Bool.Size(r.IsBreakingChange)
	size += varint.Float64.Size(r.Score)
	size += TimeMUS.Size(r.FetchedAt)
	return size
}

func (recordSer) Skip(bs []byte) (n int, err error) {
	var r core.Record
	r, n, err = RecordMUS.Unmarshal(bs)
	_ = r
	return n, err
}

type entrySer struct{}

func (entrySer) Marshal(e core.EmbeddingEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(e.RecordId, bs)
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	n += ord.String.Marshal(e.Title, bs[n:])
	n += ord.String.Marshal(e.URL, bs[n:])
	n += ord.String.Marshal(e.SourceName, bs[n:])
	n += varint.Int.Marshal(int(e.SourceType), bs[n:])
	n += stringsMUS.Marshal(e.Categories, bs[n:])
	n += TimeMUS.Marshal(e.PublishedAt, bs[n:])
	n += varint.Float64.Marshal(e.Score, bs[n:])
	n += ord.String.Marshal(e.Excerpt, bs[n:])
	return n
}

func (entrySer) Unmarshal(bs []byte) (e core.EmbeddingEntry, n int, err error) {
	var n1 int
	if e.RecordId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if e.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.URL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.SourceName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	var st int
	if st, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	e.SourceType = core.SourceType(st)
	n += n1
	if e.Categories, n1, err = stringsMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.PublishedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Score, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Excerpt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	return e, n, nil
}

func (entrySer) Size(e core.EmbeddingEntry) (size int) {
	size = IDMUS.Size(e.RecordId)
	size += vectorMUS.Size(e.Vector)
	size += ord.String.Size(e.Title)
	size += ord.String.Size(e.URL)
	size += ord.String.Size(e.SourceName)
	size += varint.Int.Size(int(e.SourceType))
	size += stringsMUS.Size(e.Categories)
	size += TimeMUS.Size(e.PublishedAt)
	size += varint.Float64.Size(e.Score)
	size += ord.String.Size(e.Excerpt)
	return size
}

func (entrySer) Skip(bs []byte) (n int, err error) {
	_, n, err = EmbeddingEntryMUS.Unmarshal(bs)
	return n, err
}

type checkpointSer struct{}

func (checkpointSer) Marshal(c core.Checkpoint, bs []byte) (n int) {
	n = TimeMUS.Marshal(c.LastRunAt, bs)
	n += TimeMUS.Marshal(c.UpdatedAt, bs[n:])
	return n
}

func (checkpointSer) Unmarshal(bs []byte) (c core.Checkpoint, n int, err error) {
	var n1 int
	if c.LastRunAt, n, err = TimeMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.UpdatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return c, n, nil
}

func (checkpointSer) Size(c core.Checkpoint) int {
	return TimeMUS.Size(c.LastRunAt) + TimeMUS.Size(c.UpdatedAt)
}

func (checkpointSer) Skip(bs []byte) (n int, err error) {
	_, n, err = CheckpointMUS.Unmarshal(bs)
	return n, err
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(*record))
	RecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (*core.Record, error) {
	record, _, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalEmbeddingEntry serializes an EmbeddingEntry to bytes.
func MarshalEmbeddingEntry(entry *core.EmbeddingEntry) []byte {
	buf := make([]byte, EmbeddingEntryMUS.Size(*entry))
	EmbeddingEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEmbeddingEntry deserializes an EmbeddingEntry from bytes.
func UnmarshalEmbeddingEntry(data []byte) (*core.EmbeddingEntry, error) {
	entry, _, err := EmbeddingEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, CheckpointMUS.Size(*checkpoint))
	CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

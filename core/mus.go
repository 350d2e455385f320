package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// VectorMUS serializes embedding vectors as length-prefixed raw float32s.
var VectorMUS = ord.NewSliceSer[float32](raw.Float32)

// DocumentMUS serializes Document values.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = ord.String.Marshal(v.FilePath, bs)
	n += ord.String.Marshal(v.FileName, bs[n:])
	n += ord.String.Marshal(v.FileType, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Preview, bs[n:])
	n += ord.String.Marshal(v.DocType, bs[n:])
	n += varint.Int64.Marshal(v.IndexedAt.UnixMicro(), bs[n:])
	return
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	v.FilePath, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.FileName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Preview, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var indexedAt int64
	indexedAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IndexedAt = time.UnixMicro(indexedAt).UTC()
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = ord.String.Size(v.FilePath)
	size += ord.String.Size(v.FileName)
	size += ord.String.Size(v.FileType)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.Preview)
	size += ord.String.Size(v.DocType)
	size += varint.Int64.Size(v.IndexedAt.UnixMicro())
	return
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 6; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// IndexInfoMUS serializes IndexInfo values.
var IndexInfoMUS = indexInfoMUS{}

type indexInfoMUS struct{}

func (s indexInfoMUS) Marshal(v IndexInfo, bs []byte) (n int) {
	n = ord.String.Marshal(v.Model, bs)
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int.Marshal(v.DocumentCount, bs[n:])
	n += varint.Int64.Marshal(v.BuiltAt.UnixMicro(), bs[n:])
	return
}

func (s indexInfoMUS) Unmarshal(bs []byte) (v IndexInfo, n int, err error) {
	var n1 int
	v.Model, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Dimensions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocumentCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var builtAt int64
	builtAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BuiltAt = time.UnixMicro(builtAt).UTC()
	return
}

func (s indexInfoMUS) Size(v IndexInfo) (size int) {
	size = ord.String.Size(v.Model)
	size += varint.Int.Size(v.Dimensions)
	size += varint.Int.Size(v.DocumentCount)
	size += varint.Int64.Size(v.BuiltAt.UnixMicro())
	return
}

func (s indexInfoMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

package store

import (
	"bytes"
	"io"
	"time"

	"mpk/crypto"
	"mpk/mpwire"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	samplesPrefix      = Prefixer("samples")
	sampleDataPrefix   = Prefixer(string(samplesPrefix("data")))
	sampleHashesPrefix = Prefixer(string(samplesPrefix("hashes")))
)

var ErrSampleNotFound = errors.New("sample not found")

// Sample is a named, encoded value kept for regression checks. Records
// are stored MessagePack-encoded with named fields so that old records
// stay readable when fields are added.
type Sample struct {
	Name    string      `msgpack:"name"`
	Hash    crypto.Hash `msgpack:"hash"`
	Data    []byte      `msgpack:"data"`
	AddedAt time.Time   `msgpack:"added_at"`
}

func GetSample(db *leveldb.DB, name string) (*Sample, error) {
	res, err := db.Get(sampleDataPrefix(name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrSampleNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "error getting sample")
	}
	return unmarshalSample(res)
}

func GetSampleByHash(db *leveldb.DB, hash crypto.Hash) (*Sample, error) {
	name, err := db.Get(sampleHashesPrefix(hash.String()), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrSampleNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "error getting sample hash")
	}
	return GetSample(db, string(name))
}

// PutSampleTx stores data under name, replacing any sample already
// stored under that name.
func PutSampleTx(tx *leveldb.Transaction, name string, data []byte) (*Sample, error) {
	if name == "" {
		return nil, errors.New("sample name must not be empty")
	}

	existing, err := tx.Get(sampleDataPrefix(name), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrap(err, "error getting existing sample")
	}
	if err == nil {
		old, err := unmarshalSample(existing)
		if err != nil {
			return nil, err
		}
		if err := tx.Delete(sampleHashesPrefix(old.Hash.String()), nil); err != nil {
			return nil, errors.Wrap(err, "error deleting sample hash")
		}
	}

	sample := &Sample{
		Name:    name,
		Hash:    crypto.Blake2B256(data),
		Data:    data,
		AddedAt: time.Now().UTC(),
	}
	record, err := mpwire.MarshalConfig(sample, mpwire.NamedConfig())
	if err != nil {
		return nil, errors.Wrap(err, "error encoding sample")
	}
	if err := tx.Put(sampleDataPrefix(name), record, nil); err != nil {
		return nil, errors.Wrap(err, "error inserting sample")
	}
	if err := tx.Put(sampleHashesPrefix(sample.Hash.String()), []byte(name), nil); err != nil {
		return nil, errors.Wrap(err, "error inserting sample hash")
	}
	logger.Debug("stored sample", "name", name, "hash", sample.Hash, "size", len(data))
	return sample, nil
}

func DeleteSampleTx(tx *leveldb.Transaction, name string) error {
	existing, err := tx.Get(sampleDataPrefix(name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return ErrSampleNotFound
	}
	if err != nil {
		return errors.Wrap(err, "error getting sample")
	}
	sample, err := unmarshalSample(existing)
	if err != nil {
		return err
	}
	if err := tx.Delete(sampleHashesPrefix(sample.Hash.String()), nil); err != nil {
		return errors.Wrap(err, "error deleting sample hash")
	}
	if err := tx.Delete(sampleDataPrefix(name), nil); err != nil {
		return errors.Wrap(err, "error deleting sample")
	}
	return nil
}

type SampleStream struct {
	iter iterator.Iterator
}

func (ss *SampleStream) Next() (*Sample, error) {
	if !ss.iter.Next() {
		return nil, nil
	}
	return unmarshalSample(ss.iter.Value())
}

func (ss *SampleStream) Close() error {
	ss.iter.Release()
	return ss.iter.Error()
}

// StreamSamples iterates over every sample in name order.
func StreamSamples(db *leveldb.DB) (*SampleStream, error) {
	return &SampleStream{
		iter: db.NewIterator(util.BytesPrefix(sampleDataPrefix("")), nil),
	}, nil
}

// ValidateSample checks that data holds exactly one well-formed value.
func ValidateSample(data []byte, cfg mpwire.Config) error {
	_, err := decodeSingle(data, cfg)
	return err
}

func unmarshalSample(record []byte) (*Sample, error) {
	sample := new(Sample)
	if err := mpwire.Unmarshal(record, sample); err != nil {
		return nil, errors.Wrap(err, "error decoding sample")
	}
	return sample, nil
}

func decodeSingle(data []byte, cfg mpwire.Config) (mpwire.Value, error) {
	dec := mpwire.NewDecoderBytes(data, cfg)
	v, err := mpwire.ReadValue(dec)
	if err == io.EOF {
		return nil, errors.New("sample is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "malformed sample")
	}
	if trailing := int64(len(data)) - dec.Position(); trailing != 0 {
		return nil, errors.Errorf("sample has %d trailing bytes", trailing)
	}
	return v, nil
}

func encodeValue(v mpwire.Value, cfg mpwire.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := mpwire.WriteValue(mpwire.NewEncoder(&buf, cfg), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package store

import (
	"context"
	"encoding/hex"
	"testing"

	"mpk/crypto"
	"mpk/mpwire"

	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func putSample(t *testing.T, db *leveldb.DB, name string, data []byte) *Sample {
	var sample *Sample
	require.NoError(t, WithTx(db, func(tx *leveldb.Transaction) error {
		var err error
		sample, err = PutSampleTx(tx, name, data)
		return err
	}))
	return sample
}

func TestSamples_PutGetDelete(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	data := mustHex(t, "94c3cd012ca26869920102")
	put := putSample(t, db, "scenario", data)
	require.Equal(t, crypto.Blake2B256(data), put.Hash)

	got, err := GetSample(db, "scenario")
	require.NoError(t, err)
	require.Equal(t, put, got)

	byHash, err := GetSampleByHash(db, put.Hash)
	require.NoError(t, err)
	require.Equal(t, put, byHash)

	replaced := putSample(t, db, "scenario", mustHex(t, "c0"))
	_, err = GetSampleByHash(db, put.Hash)
	require.Equal(t, ErrSampleNotFound, err)
	byHash, err = GetSampleByHash(db, replaced.Hash)
	require.NoError(t, err)
	require.Equal(t, "scenario", byHash.Name)

	require.NoError(t, WithTx(db, func(tx *leveldb.Transaction) error {
		return DeleteSampleTx(tx, "scenario")
	}))
	_, err = GetSample(db, "scenario")
	require.Equal(t, ErrSampleNotFound, err)
	_, err = GetSampleByHash(db, replaced.Hash)
	require.Equal(t, ErrSampleNotFound, err)

	err = WithTx(db, func(tx *leveldb.Transaction) error {
		return DeleteSampleTx(tx, "scenario")
	})
	require.Equal(t, ErrSampleNotFound, err)
}

func TestSamples_Stream(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	names := []string{"c", "a", "b"}
	for _, name := range names {
		putSample(t, db, name, []byte{0x01})
	}

	stream, err := StreamSamples(db)
	require.NoError(t, err)
	var got []string
	for {
		sample, err := stream.Next()
		require.NoError(t, err)
		if sample == nil {
			break
		}
		got = append(got, sample.Name)
	}
	require.NoError(t, stream.Close())
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestWithTx_DiscardsOnError(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	err := WithTx(db, func(tx *leveldb.Transaction) error {
		if _, err := PutSampleTx(tx, "x", []byte{0x01}); err != nil {
			return err
		}
		return ErrSampleNotFound
	})
	require.Equal(t, ErrSampleNotFound, err)
	_, err = GetSample(db, "x")
	require.Equal(t, ErrSampleNotFound, err)

	err = WithTx(db, func(tx *leveldb.Transaction) error {
		_, err := PutSampleTx(tx, "", []byte{0x01})
		return err
	})
	require.Error(t, err)
}

func TestValidateSample(t *testing.T) {
	cfg := mpwire.DefaultConfig()
	require.NoError(t, ValidateSample(mustHex(t, "94c3cd012ca26869920102"), cfg))
	require.Error(t, ValidateSample(nil, cfg))
	require.Error(t, ValidateSample(mustHex(t, "0101"), cfg))
	require.Error(t, ValidateSample(mustHex(t, "92c3"), cfg))
	require.Error(t, ValidateSample(mustHex(t, "c1"), cfg))

	cfg.MaxDepth = 1
	require.Error(t, ValidateSample(mustHex(t, "9190"), cfg))
}

func TestVerifySamples(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	putSample(t, db, "scenario", mustHex(t, "94c3cd012ca26869920102"))
	// non-minimal tiers still verify
	putSample(t, db, "wide", mustHex(t, "dc0001cf0000000000000001"))
	putSample(t, db, "nan", mustHex(t, "cb7ff8000000000001"))
	putSample(t, db, "truncated", mustHex(t, "92c3"))

	corrupt := putSample(t, db, "corrupt", mustHex(t, "c3"))
	corrupt.Data = mustHex(t, "c2")
	record, err := mpwire.MarshalConfig(corrupt, mpwire.NamedConfig())
	require.NoError(t, err)
	require.NoError(t, db.Put(sampleDataPrefix("corrupt"), record, nil))

	for _, workers := range []int{0, 1, 3} {
		results, err := VerifySamples(context.Background(), db, mpwire.DefaultConfig(), workers)
		require.NoError(t, err)
		require.Len(t, results, 5)

		failed := make(map[string]bool)
		var names []string
		for _, res := range results {
			names = append(names, res.Name)
			failed[res.Name] = res.Err != nil
		}
		require.Equal(t, []string{"corrupt", "nan", "scenario", "truncated", "wide"}, names)
		require.Equal(t, map[string]bool{
			"corrupt":   true,
			"nan":       false,
			"scenario":  false,
			"truncated": true,
			"wide":      false,
		}, failed)
	}
}

func TestVerifySamples_Cancelled(t *testing.T) {
	db, done := setupLevelDB(t)
	defer done()

	putSample(t, db, "a", []byte{0x01})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := VerifySamples(ctx, db, mpwire.DefaultConfig(), 2)
	require.Error(t, err)
}

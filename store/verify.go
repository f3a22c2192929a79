package store

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"mpk/crypto"
	"mpk/mpwire"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Verification struct {
	Name string
	Hash crypto.Hash
	Size int
	Err  error
}

// VerifySample checks the sample's digest, then decodes it, re-encodes
// the result and decodes that again. The second encoding must equal the
// re-encoding of the second decode.
func VerifySample(sample *Sample, cfg mpwire.Config) error {
	if crypto.Blake2B256(sample.Data) != sample.Hash {
		return errors.New("hash mismatch")
	}
	first, err := decodeSingle(sample.Data, cfg)
	if err != nil {
		return err
	}
	canonical, err := encodeValue(first, cfg)
	if err != nil {
		return errors.Wrap(err, "error re-encoding sample")
	}
	second, err := decodeSingle(canonical, cfg)
	if err != nil {
		return errors.Wrap(err, "re-encoded sample does not decode")
	}
	again, err := encodeValue(second, cfg)
	if err != nil {
		return errors.Wrap(err, "error re-encoding sample")
	}
	if !bytes.Equal(canonical, again) {
		return errors.New("sample changed after round trip")
	}
	return nil
}

// VerifySamples runs VerifySample over the whole corpus with at most
// workers samples in flight. Results are ordered by name. The returned
// error is only set when the corpus cannot be read or ctx is done.
func VerifySamples(ctx context.Context, db *leveldb.DB, cfg mpwire.Config, workers int) ([]*Verification, error) {
	if workers < 1 {
		workers = 1
	}

	stream, err := StreamSamples(db)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)
	var mtx sync.Mutex
	var results []*Verification
	for {
		if err := gCtx.Err(); err != nil {
			g.Wait()
			return nil, errors.Wrap(err, "error verifying samples")
		}
		sample, err := stream.Next()
		if err != nil {
			g.Wait()
			return nil, err
		}
		if sample == nil {
			break
		}
		if err := sem.Acquire(gCtx, 1); err != nil {
			g.Wait()
			return nil, errors.Wrap(err, "error verifying samples")
		}
		g.Go(func() error {
			defer sem.Release(1)
			res := &Verification{
				Name: sample.Name,
				Hash: sample.Hash,
				Size: len(sample.Data),
				Err:  VerifySample(sample, cfg),
			}
			if res.Err != nil {
				logger.Warn("sample failed verification", "name", sample.Name, "err", res.Err)
			}
			mtx.Lock()
			results = append(results, res)
			mtx.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "error verifying samples")
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results, nil
}

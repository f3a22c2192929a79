package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"mpk/cli"
	"mpk/config"
	"mpk/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Commands related to the sample corpus.",
}

type sampleRecord struct {
	Name    string    `json:"name"`
	Hash    string    `json:"hash"`
	Size    int       `json:"size"`
	AddedAt time.Time `json:"added_at"`
}

type verificationRecord struct {
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	Size  int    `json:"size"`
	Error string `json:"error,omitempty"`
}

func openCorpus() (*leveldb.DB, error) {
	if err := config.EnsureHomeDir(configuredHomeDir); err != nil {
		return nil, errors.Wrap(err, "error ensuring home directory")
	}
	dbPath := config.ExpandDBPath(configuredHomeDir)
	lgr.Info("opening db", "path", dbPath)
	return store.Open(dbPath)
}

var corpusAddCmd = &cobra.Command{
	Use:   "add <name> [file]",
	Short: "Adds a sample to the corpus.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cli.ReadInput(cmd, args[1:])
		if err != nil {
			return err
		}
		if err := store.ValidateSample(data, wireCfg); err != nil {
			return err
		}

		db, err := openCorpus()
		if err != nil {
			return err
		}
		defer db.Close()

		var sample *store.Sample
		err = store.WithTx(db, func(tx *leveldb.Transaction) error {
			sample, err = store.PutSampleTx(tx, args[0], data)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Printf("Success. Hash: %s\n", sample.Hash)
		return nil
	},
}

var corpusRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Removes a sample from the corpus.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCorpus()
		if err != nil {
			return err
		}
		defer db.Close()

		return store.WithTx(db, func(tx *leveldb.Transaction) error {
			return store.DeleteSampleTx(tx, args[0])
		})
	},
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the samples in the corpus.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCorpus()
		if err != nil {
			return err
		}
		defer db.Close()

		stream, err := store.StreamSamples(db)
		if err != nil {
			return err
		}
		defer stream.Close()

		var rows [][]string
		var records []interface{}
		for {
			sample, err := stream.Next()
			if err != nil {
				return err
			}
			if sample == nil {
				break
			}
			rec := sampleRecord{
				Name:    sample.Name,
				Hash:    sample.Hash.String(),
				Size:    len(sample.Data),
				AddedAt: sample.AddedAt,
			}
			records = append(records, rec)
			rows = append(rows, []string{
				rec.Name,
				rec.Hash,
				strconv.Itoa(rec.Size),
				rec.AddedAt.Format(time.RFC3339),
			})
		}
		return render(cmd, []string{"Name", "Hash", "Size", "Added At"}, rows, records)
	},
}

var corpusVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Round-trips every sample in the corpus.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCorpus()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		results, err := store.VerifySamples(ctx, db, wireCfg, appCfg.Corpus.Workers)
		if err != nil {
			return err
		}

		var failed int
		var rows [][]string
		var records []interface{}
		for _, res := range results {
			rec := verificationRecord{
				Name: res.Name,
				Hash: res.Hash.String(),
				Size: res.Size,
			}
			status := "OK"
			if res.Err != nil {
				failed++
				rec.Error = res.Err.Error()
				status = rec.Error
			}
			records = append(records, rec)
			rows = append(rows, []string{rec.Name, rec.Hash, strconv.Itoa(rec.Size), status})
		}
		if err := render(cmd, []string{"Name", "Hash", "Size", "Status"}, rows, records); err != nil {
			return err
		}
		if failed > 0 {
			return errors.Errorf("%d of %d samples failed verification", failed, len(results))
		}
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusAddCmd)
	corpusCmd.AddCommand(corpusRemoveCmd)
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusVerifyCmd)
	rootCmd.AddCommand(corpusCmd)
}

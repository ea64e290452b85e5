// Command artifact_inspect dumps the persisted artifact blobs from BadgerDB
// for debugging: key sizes, model version, vocabulary size and label set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "artifact:", "Prefix to scan")
	flag.Parse()

	// Read-only with lock bypass so inspection works while the server runs.
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Bytes", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, fmt.Sprintf("%d", len(v)), describe(key, v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
}

func describe(key string, raw []byte) string {
	switch key {
	case "artifact:meta":
		var meta struct {
			Version   string    `json:"version"`
			TrainedAt time.Time `json:"trained_at"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return "unreadable meta"
		}
		return fmt.Sprintf("version=%s trained_at=%s", meta.Version, meta.TrainedAt.Format(time.RFC3339))
	case "artifact:vectorizer":
		var vec struct {
			Vocabulary map[string]int `json:"vocabulary"`
		}
		if err := json.Unmarshal(raw, &vec); err != nil {
			return "unreadable vectorizer"
		}
		return fmt.Sprintf("vocabulary=%d terms", len(vec.Vocabulary))
	case "artifact:classifier":
		var clf struct {
			Classes []string `json:"classes"`
		}
		if err := json.Unmarshal(raw, &clf); err != nil {
			return "unreadable classifier"
		}
		return fmt.Sprintf("classes=%v", clf.Classes)
	default:
		return ""
	}
}

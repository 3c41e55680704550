package source

import (
	"context"
	"errors"
	"io"
	"log"
)

// Source is the interface for raw sentence inputs. A batch is a chunk of
// text holding one or more '$'-delimited sentences.
type Source interface {
	Name() string
	Connect() error
	Close() error
	// ReadBatch returns the next raw batch. io.EOF ends the stream.
	ReadBatch() (string, error)
}

// Run pumps batches from a source into dispatch until the context is done
// or the source is exhausted. Read errors other than EOF are returned so
// the caller can reconnect.
func Run(ctx context.Context, src Source, dispatch func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := src.ReadBatch()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Printf("[source] %s exhausted", src.Name())
				return nil
			}
			return err
		}
		if batch == "" {
			continue
		}
		dispatch(batch)
	}
}

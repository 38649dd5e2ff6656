package migration

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"go.mongodb.org/mongo-driver/bson"
)

const maxDocumentSize = 16 * 1024 * 1024

// readBSONFile decodes a mongodump collection file. A missing file yields
// no documents.
func readBSONFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return readBSON[T](bufio.NewReader(file))
}

func readBSON[T any](r io.Reader) ([]T, error) {
	var docs []T
	for {
		// Each document starts with its int32 length, which counts itself.
		lengthBytes := make([]byte, 4)
		_, err := io.ReadFull(r, lengthBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document length: %w", err)
		}

		length := int32(binary.LittleEndian.Uint32(lengthBytes))
		if length <= 4 || length > maxDocumentSize {
			return nil, fmt.Errorf("invalid document length: %d", length)
		}

		doc := make([]byte, length)
		copy(doc, lengthBytes)
		if _, err := io.ReadFull(r, doc[4:]); err != nil {
			return nil, fmt.Errorf("failed to read document bytes: %w", err)
		}

		var v T
		if err := bson.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("failed to decode document %d: %w", len(docs), err)
		}
		docs = append(docs, v)
	}
	return docs, nil
}

package docstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/ranfysvalle02/bridgebase/internal/logger"
)

const (
	payloadLenSize = 4
	crcLenSize     = 4
	headerSize     = payloadLenSize + crcLenSize
	maxPayloadSize = 16 * 1024 * 1024
)

// dataFile is an append-only record file: each record is a 4-byte little
// endian payload length, a 4-byte CRC32 of the payload, then the payload.
// It is not safe for concurrent use; the owning collection serializes access.
type dataFile struct {
	path string
	file *os.File
	size int64
}

func openDataFile(path string) (*dataFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open datafile %s: %w", path, err)
	}
	return &dataFile{path: path, file: file}, nil
}

// replay streams every intact record to fn in write order. A torn tail,
// which a crash mid-append leaves behind, is truncated away so the file is
// clean for new appends. The write position ends at the last good record.
func (df *dataFile) replay(fn func(payload []byte) error) error {
	if _, err := df.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek datafile %s: %w", df.path, err)
	}

	r := bufio.NewReader(df.file)
	header := make([]byte, headerSize)
	var offset int64

	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break // clean end or torn header
			}
			return fmt.Errorf("failed to read datafile %s: %w", df.path, err)
		}
		length := binary.LittleEndian.Uint32(header[0:])
		storedCRC := binary.LittleEndian.Uint32(header[4:])
		if length > maxPayloadSize {
			break
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break // torn payload
			}
			return fmt.Errorf("failed to read datafile %s: %w", df.path, err)
		}
		if crc32.ChecksumIEEE(payload) != storedCRC {
			break
		}

		if err := fn(payload); err != nil {
			return err
		}
		offset += headerSize + int64(length)
	}

	if info, err := df.file.Stat(); err == nil && info.Size() > offset {
		logger.Warn("truncating torn datafile tail",
			"path", df.path, "good_bytes", offset, "file_bytes", info.Size())
		if err := df.file.Truncate(offset); err != nil {
			return fmt.Errorf("failed to truncate datafile %s: %w", df.path, err)
		}
	}

	if _, err := df.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek datafile %s: %w", df.path, err)
	}
	df.size = offset
	return nil
}

func (df *dataFile) append(payload []byte) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("payload too large: %d bytes", len(payload))
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:], crc32.ChecksumIEEE(payload))

	if _, err := df.file.Write(header); err != nil {
		return fmt.Errorf("failed to write record header: %w", err)
	}
	if _, err := df.file.Write(payload); err != nil {
		return fmt.Errorf("failed to write record payload: %w", err)
	}
	df.size += headerSize + int64(len(payload))
	return nil
}

func (df *dataFile) truncate() error {
	if err := df.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate datafile %s: %w", df.path, err)
	}
	if _, err := df.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek datafile %s: %w", df.path, err)
	}
	df.size = 0
	return nil
}

func (df *dataFile) sync() error {
	if df.file == nil {
		return nil
	}
	return df.file.Sync()
}

func (df *dataFile) close() error {
	if df.file == nil {
		return nil
	}
	if err := df.file.Sync(); err != nil {
		return err
	}
	if err := df.file.Close(); err != nil {
		return err
	}
	df.file = nil
	return nil
}

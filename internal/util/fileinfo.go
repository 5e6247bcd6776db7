package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// FileInfo identifies a version of an input file.
type FileInfo struct {
	ModTime     int64  `json:"modTime"`
	Size        int64  `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

// GetFileInfo stats path and fingerprints its content with CRC32.
func GetFileInfo(path string) (*FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	hash := crc32.NewIEEE()
	if _, err := io.Copy(hash, file); err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	return &FileInfo{
		ModTime:     stat.ModTime().Unix(),
		Size:        stat.Size(),
		Fingerprint: fmt.Sprintf("%08x", hash.Sum32()),
	}, nil
}

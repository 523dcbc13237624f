package publish

import (
	"encoding/base64"
	"hash/crc64"
	"io"
	"os"
)

// CRC64NVME polynomial as per AWS S3 specification
var crc64NVMETable = crc64.MakeTable(0x9a6c9329ac4bc9b5)

// calculateFileChecksum returns the base64 CRC64NVME digest S3 reports for
// an object with the file's content
func calculateFileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := crc64.New(crc64NVMETable)
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(hash.Sum(nil)), nil
}

package files

import (
	"fmt"
	"os"

	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// framing fingerprint
//*******************************************

var _FINGERPRINT_MAGIC = [4]byte{'G', 'C', 'T', 'R'}

const _FINGERPRINT_VERSION int32 = 1

func _WriteFingerprint(writer BufferWriter) {
	Write(writer, _FINGERPRINT_MAGIC)
	Write(writer, _FINGERPRINT_VERSION)
}

func _VerifyFingerprint(reader BufferReader, path string) error {
	magic := Read[[4]byte](reader)
	if magic != _FINGERPRINT_MAGIC {
		return fmt.Errorf("fingerprint mismatch in %s", path)
	}
	version := Read[int32](reader)
	if version != _FINGERPRINT_VERSION {
		return fmt.Errorf("unsupported file version %d in %s", version, path)
	}
	return nil
}

//*******************************************
// file helpers
//*******************************************

func _ReadFile(path string) (BufferReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BufferReader{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewBufferReader(data), nil
}

// Writes through a temp file and renames on completion, so a failed
// run never leaves a truncated output behind.
func _WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

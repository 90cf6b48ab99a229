package sim

import (
	"github.com/spf13/afero"
	"howett.net/plist"
)

// PlistReader decodes XML, binary and OpenStep property lists from fs
type PlistReader struct {
	fs afero.Fs
}

func NewPlistReader(fs afero.Fs) *PlistReader {
	return &PlistReader{fs: fs}
}

func (r *PlistReader) ReadPlist(path string, v interface{}) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return err
	}

	_, err = plist.Unmarshal(data, v)
	return err
}

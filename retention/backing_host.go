//go:build !rp2040 && !rp2350

package retention

import "os"

// FileBacking stands in for the low-power memory region on host builds:
// one flat file holding the domain image. Writes go through a rename so
// a crash mid-checkpoint leaves the previous image, not a torn one; the
// CRC in the header still guards against everything else.
type FileBacking struct {
	Path string
}

func NewFileBacking(path string) *FileBacking { return &FileBacking{Path: path} }

func (f *FileBacking) Read(dst []byte) (int, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil // first boot
		}
		return 0, err
	}
	return copy(dst, raw), nil
}

func (f *FileBacking) Write(src []byte) error {
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, src, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

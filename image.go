package op2util

import "github.com/logicossoftware/go-op2util/sprite"

// OpenImages opens the master sprite bitmap and its art file.
func (b *Bridge) OpenImages(bmpPath, artPath string) (h Handle, err error) {
	defer b.done("OpenImages", &err)
	l, err := sprite.New(bmpPath, artPath)
	if err != nil {
		return Null, err
	}
	return b.images.Insert(l), nil
}

func (b *Bridge) ReleaseImages(h Handle) (err error) {
	defer b.done("ReleaseImages", &err)
	return releaseCloser(b.images, h)
}

func (b *Bridge) ImageCount(h Handle) (n int, err error) {
	defer b.done("ImageCount", &err)
	l, err := lookup(b.images, h)
	if err != nil {
		return 0, err
	}
	return l.ImageCount(), nil
}

// ExtractImage writes image i as an indexed BMP at path.
func (b *Bridge) ExtractImage(h Handle, i int, path string) (err error) {
	defer b.done("ExtractImage", &err)
	l, err := lookup(b.images, h)
	if err != nil {
		return err
	}
	return l.ExtractImage(i, path)
}

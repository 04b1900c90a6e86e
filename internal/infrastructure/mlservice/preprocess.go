package mlservice

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

const (
	resizeSize = 244 // короткая сторона после масштабирования
	cropSize   = 224 // сторона центрального кропа
	channels   = 3
)

// PreprocessImage декодирует изображение и приводит его к тензору CHW float32:
// масштабирование короткой стороны до 244, центральный кроп 224x224,
// нормализация каналов (x - 0.5) / 0.5.
func PreprocessImage(data []byte) ([]float32, error) {
	const op = "mlservice.PreprocessImage"

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, e.Wrap(op, e.ErrDecodeImage)
	}

	scaled := resizeShorterSide(img, resizeSize)
	cropped := centerCrop(scaled, cropSize)

	return toTensor(cropped), nil
}

// resizeShorterSide масштабирует изображение так, чтобы короткая сторона
// стала равна size, сохраняя пропорции
func resizeShorterSide(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dstW, dstH int
	if w < h {
		dstW = size
		dstH = h * size / w
	} else {
		dstH = size
		dstW = w * size / h
	}
	if dstW < size {
		dstW = size
	}
	if dstH < size {
		dstH = size
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// centerCrop вырезает из центра изображения квадрат со стороной size
func centerCrop(img *image.RGBA, size int) *image.RGBA {
	b := img.Bounds()
	x0 := b.Min.X + (b.Dx()-size)/2
	y0 := b.Min.Y + (b.Dy()-size)/2

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return dst
}

// toTensor раскладывает пиксели в формат CHW с нормализацией каждого канала
func toTensor(img *image.RGBA) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	tensor := make([]float32, channels*w*h)
	plane := w * h

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			offset := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			idx := y*w + x

			for c := 0; c < channels; c++ {
				v := float32(img.Pix[offset+c]) / 255.0
				tensor[c*plane+idx] = (v - 0.5) / 0.5
			}
		}
	}

	return tensor
}

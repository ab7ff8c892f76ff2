package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strconv"
	"strings"

	"rsc.io/pdf"
)

// Image encodings understood by the writer.
const (
	imagePNG  = "PNG"
	imageJPEG = "JPG"
)

// decodedImage is an image XObject ready to be written back out.
type decodedImage struct {
	data []byte
	typ  string
}

// decodeImage prepares an image XObject for the writer. JPEG streams are
// passed through untouched. Unfiltered and Flate streams with 8-bit gray,
// RGB or CMYK samples are re-encoded as PNG, PNG predictors included.
// src is the raw file, nil when stream bytes cannot be read directly.
func decodeImage(x pdf.Value, src []byte) (img decodedImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = decodedImage{}, fmt.Errorf("decode image: %v", r)
		}
	}()

	f := x.Key("Filter")
	if isFilter(f, "DCTDecode") {
		data, err := jpegStream(x, src)
		if err != nil {
			return decodedImage{}, err
		}
		return decodedImage{data: data, typ: imageJPEG}, nil
	}
	if !flateOnly(f) {
		return decodedImage{}, fmt.Errorf("unsupported filter %v", f)
	}
	if x.Key("ImageMask").Bool() {
		return decodedImage{}, fmt.Errorf("stencil masks are not supported")
	}
	if bpc := x.Key("BitsPerComponent").Int64(); bpc != 8 {
		return decodedImage{}, fmt.Errorf("unsupported bits per component %d", bpc)
	}
	comps, err := components(x.Key("ColorSpace"))
	if err != nil {
		return decodedImage{}, err
	}
	w, h := int(x.Key("Width").Int64()), int(x.Key("Height").Int64())
	if w <= 0 || h <= 0 {
		return decodedImage{}, fmt.Errorf("invalid image size %dx%d", w, h)
	}

	samples, err := imageSamples(x, src, f, comps, w)
	if err != nil {
		return decodedImage{}, err
	}
	if len(samples) < w*h*comps {
		return decodedImage{}, fmt.Errorf("short image data: %d bytes for %dx%dx%d", len(samples), w, h, comps)
	}

	data, err := encodePNG(samples, w, h, comps)
	if err != nil {
		return decodedImage{}, err
	}
	return decodedImage{data: data, typ: imagePNG}, nil
}

// imageSamples returns the unfiltered sample bytes of a Flate or
// unfiltered stream. The reader only undoes the PNG Up predictor, so any
// other predictor is inflated and reversed here from the raw stream.
func imageSamples(x pdf.Value, src []byte, f pdf.Value, comps, w int) ([]byte, error) {
	parms := x.Key("DecodeParms")
	if pred := parms.Key("Predictor").Int64(); isFilter(f, "FlateDecode") && pred >= 10 {
		raw, err := rawStream(x, src)
		if err != nil {
			return nil, err
		}
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		inflated, err := io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
		colors := comps
		if c := parms.Key("Colors").Int64(); c > 0 {
			colors = int(c)
		}
		columns := w
		if c := parms.Key("Columns").Int64(); c > 0 {
			columns = int(c)
		}
		return unpredictPNG(inflated, colors, columns)
	}

	rc := x.Reader()
	defer rc.Close()
	return io.ReadAll(rc)
}

// jpegStream returns the JPEG bytes of a DCTDecode stream, checking that
// the writer will be able to embed them.
func jpegStream(x pdf.Value, src []byte) ([]byte, error) {
	data, err := rawStream(x, src)
	if err != nil {
		return nil, err
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	switch cfg.ColorModel {
	case color.GrayModel, color.YCbCrModel, color.CMYKModel:
		return data, nil
	}
	return nil, fmt.Errorf("jpeg: unsupported colour model %T", cfg.ColorModel)
}

// rawStream slices the still-encoded bytes of a stream out of src. The
// reader formats a stream value as its dictionary followed by "@" and the
// file offset of its data.
func rawStream(x pdf.Value, src []byte) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("raw stream data unavailable")
	}
	s := x.String()
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return nil, fmt.Errorf("no stream offset in %q", s)
	}
	off, err := strconv.ParseInt(s[at+1:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stream offset: %w", err)
	}
	n := x.Key("Length").Int64()
	if off < 0 || n <= 0 || off+n > int64(len(src)) {
		return nil, fmt.Errorf("stream at %d with length %d lies outside the file", off, n)
	}
	return src[off : off+n], nil
}

// unpredictPNG reverses per-row PNG filters on 8-bit samples.
func unpredictPNG(data []byte, colors, columns int) ([]byte, error) {
	bpp := colors
	stride := colors * columns
	if stride <= 0 {
		return nil, fmt.Errorf("invalid predictor row size")
	}
	rows := len(data) / (stride + 1)
	out := make([]byte, rows*stride)
	prev := make([]byte, stride)
	for r := 0; r < rows; r++ {
		in := data[r*(stride+1):]
		filter, cur := in[0], out[r*stride:(r+1)*stride]
		copy(cur, in[1:stride+1])
		for i := range cur {
			var left, upLeft byte
			if i >= bpp {
				left, upLeft = cur[i-bpp], prev[i-bpp]
			}
			up := prev[i]
			switch filter {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter %d", filter)
			}
		}
		prev = cur
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func encodePNG(samples []byte, w, h, comps int) ([]byte, error) {
	bounds := image.Rect(0, 0, w, h)
	var img image.Image
	switch comps {
	case 1:
		g := image.NewGray(bounds)
		copy(g.Pix, samples)
		img = g
	case 3:
		rgba := image.NewRGBA(bounds)
		for i := 0; i < w*h; i++ {
			copy(rgba.Pix[4*i:4*i+3], samples[3*i:3*i+3])
			rgba.Pix[4*i+3] = 0xff
		}
		img = rgba
	case 4:
		cmyk := image.NewCMYK(bounds)
		copy(cmyk.Pix, samples)
		img = cmyk
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isFilter reports whether f is exactly the one named filter.
func isFilter(f pdf.Value, name string) bool {
	switch f.Kind() {
	case pdf.Name:
		return f.Name() == name
	case pdf.Array:
		return f.Len() == 1 && f.Index(0).Name() == name
	}
	return false
}

func flateOnly(f pdf.Value) bool {
	switch f.Kind() {
	case pdf.Null:
		return true
	case pdf.Name:
		return f.Name() == "FlateDecode"
	case pdf.Array:
		for i := 0; i < f.Len(); i++ {
			if f.Index(i).Name() != "FlateDecode" {
				return false
			}
		}
		return true
	}
	return false
}

func components(cs pdf.Value) (int, error) {
	name := cs.Name()
	if cs.Kind() == pdf.Array {
		name = cs.Index(0).Name()
	}
	switch name {
	case "DeviceGray", "CalGray":
		return 1, nil
	case "DeviceRGB", "CalRGB":
		return 3, nil
	case "DeviceCMYK":
		return 4, nil
	case "ICCBased":
		if n := int(cs.Index(1).Key("N").Int64()); n == 1 || n == 3 || n == 4 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unsupported colour space %v", cs)
}
